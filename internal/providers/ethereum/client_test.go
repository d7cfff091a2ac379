package ethereum

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-buyer-indexer/internal/mocks"
)

var (
	testResolver = common.HexToAddress("0x4976fb03C32e5B8cfe2b6cCB31c09Ba78EBaBa41")
	testNode     = Namehash("alice.eth")
)

func setupTest(t *testing.T) (*mocks.MockEthClient, EthereumClient) {
	ctrl := gomock.NewController(t)
	eth := mocks.NewMockEthClient(ctrl)
	return eth, NewClient(eth, nil, "ethereum_rpc")
}

func TestEthereumClient_Name(t *testing.T) {
	eth, client := setupTest(t)

	packed, err := resolverABI.Methods["name"].Outputs.Pack("alice.eth")
	require.NoError(t, err)

	eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).
		DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
			require.NotNil(t, msg.To)
			assert.Equal(t, testResolver, *msg.To)
			assert.Equal(t, resolverABI.Methods["name"].ID, msg.Data[:4])
			assert.Equal(t, testNode.Bytes(), msg.Data[4:36])
			return packed, nil
		})

	name, err := client.Name(context.Background(), testResolver, testNode)
	require.NoError(t, err)
	assert.Equal(t, "alice.eth", name)
}

func TestEthereumClient_EmptyResult(t *testing.T) {
	eth, client := setupTest(t)

	eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).Return([]byte{}, nil)

	resolver, err := client.Resolver(context.Background(), ENSRegistry, testNode)
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, resolver)
}

func TestEthereumClient_AddrAndText(t *testing.T) {
	eth, client := setupTest(t)
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")

	addrOut, err := resolverABI.Methods["addr"].Outputs.Pack(owner)
	require.NoError(t, err)
	textOut, err := resolverABI.Methods["text"].Outputs.Pack("https://img/a.png")
	require.NoError(t, err)

	gomock.InOrder(
		eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).Return(addrOut, nil),
		eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).
			DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
				assert.Equal(t, resolverABI.Methods["text"].ID, msg.Data[:4])
				return textOut, nil
			}),
	)

	resolved, err := client.Addr(context.Background(), testResolver, testNode)
	require.NoError(t, err)
	assert.Equal(t, owner, resolved)

	text, err := client.Text(context.Background(), testResolver, testNode, "avatar")
	require.NoError(t, err)
	assert.Equal(t, "https://img/a.png", text)
}

func TestEthereumClient_CallErrors(t *testing.T) {
	eth, client := setupTest(t)

	eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).Return(nil, errors.New("execution reverted"))
	_, err := client.Name(context.Background(), testResolver, testNode)
	assert.ErrorContains(t, err, "execution reverted")

	eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), nil).Return([]byte{0x01, 0x02}, nil)
	_, err = client.Name(context.Background(), testResolver, testNode)
	assert.ErrorContains(t, err, "unpack")
}

func TestEthereumClient_HasCode(t *testing.T) {
	eth, client := setupTest(t)
	addr := common.HexToAddress("0x2222222222222222222222222222222222222222")

	eth.EXPECT().CodeAt(gomock.Any(), addr, nil).Return([]byte{0x60, 0x80}, nil)
	ok, err := client.HasCode(context.Background(), addr)
	require.NoError(t, err)
	assert.True(t, ok)

	eth.EXPECT().CodeAt(gomock.Any(), addr, nil).Return([]byte{}, nil)
	ok, err = client.HasCode(context.Background(), addr)
	require.NoError(t, err)
	assert.False(t, ok)

	eth.EXPECT().Close()
	client.Close()
}
