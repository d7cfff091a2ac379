package registry_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/mocks"
	"github.com/feral-file/ff-buyer-indexer/internal/registry"
)

const (
	wolf  = "0x0eee4c7dbe630dbdf475a57f0625bf648b58a068"
	alice = "0x1111111111111111111111111111111111111111"
)

func TestLoadOverrides(t *testing.T) {
	tests := []struct {
		name         string
		setupMocks   func(*mocks.MockFileSystem)
		expectedErr  string
		validateFunc func(t *testing.T, reg registry.OverrideRegistry)
	}{
		{
			name: "object and bare name entries",
			setupMocks: func(mockFS *mocks.MockFileSystem) {
				mockFS.EXPECT().ReadFile("overrides.json").Return([]byte(`{
					"0x0EEE4C7DBE630DBDF475A57F0625BF648B58A068": {"name": "cryptowolf07.farcaster.eth", "avatar": null},
					"0x1111111111111111111111111111111111111111": "alice",
					"not-an-address": "ignored",
					"0x2222222222222222222222222222222222222222": {"name": ""}
				}`), nil)
			},
			validateFunc: func(t *testing.T, reg registry.OverrideRegistry) {
				assert.Equal(t, 2, reg.Len())

				p, err := reg.Lookup(context.Background(), wolf)
				require.NoError(t, err)
				require.NotNil(t, p)
				assert.Equal(t, "cryptowolf07.farcaster.eth", *p.ManualName)
				assert.Nil(t, p.AvatarURL)

				p, err = reg.Lookup(context.Background(), "0x1111111111111111111111111111111111111111")
				require.NoError(t, err)
				require.NotNil(t, p)
				assert.Equal(t, "alice", *p.ManualName)

				p, err = reg.Lookup(context.Background(), "0x3333333333333333333333333333333333333333")
				require.NoError(t, err)
				assert.Nil(t, p)
			},
		},
		{
			name: "missing file yields empty table",
			setupMocks: func(mockFS *mocks.MockFileSystem) {
				mockFS.EXPECT().ReadFile("overrides.json").Return(nil, fs.ErrNotExist)
			},
			validateFunc: func(t *testing.T, reg registry.OverrideRegistry) {
				assert.Equal(t, 0, reg.Len())
				assert.Equal(t, "manual", reg.Name())
			},
		},
		{
			name: "file read error",
			setupMocks: func(mockFS *mocks.MockFileSystem) {
				mockFS.EXPECT().ReadFile("overrides.json").Return(nil, assert.AnError)
			},
			expectedErr: "failed to read override file",
		},
		{
			name: "invalid JSON",
			setupMocks: func(mockFS *mocks.MockFileSystem) {
				mockFS.EXPECT().ReadFile("overrides.json").Return([]byte(`[1,2]`), nil)
			},
			expectedErr: "failed to parse override JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockFS := mocks.NewMockFileSystem(ctrl)
			tt.setupMocks(mockFS)

			reg, err := registry.LoadOverrides(mockFS, "overrides.json")
			if tt.expectedErr != "" {
				assert.ErrorContains(t, err, tt.expectedErr)
				assert.Nil(t, reg)
				return
			}
			require.NoError(t, err)
			tt.validateFunc(t, reg)
		})
	}
}

func TestOverrideRegistry_LookupInvalidAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockFS := mocks.NewMockFileSystem(ctrl)
	mockFS.EXPECT().ReadFile(gomock.Any()).Return([]byte(`{}`), nil)

	reg, err := registry.LoadOverrides(mockFS, "overrides.json")
	require.NoError(t, err)

	_, err = reg.Lookup(context.Background(), "0xnope")
	assert.Error(t, err)
}

func TestOverrideRegistry_ReloadKeepsTableOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockFS := mocks.NewMockFileSystem(ctrl)

	gomock.InOrder(
		mockFS.EXPECT().ReadFile("overrides.json").Return([]byte(`{"`+alice+`": "alice"}`), nil),
		mockFS.EXPECT().ReadFile("overrides.json").Return([]byte(`{broken`), nil),
	)

	reg, err := registry.LoadOverrides(mockFS, "overrides.json")
	require.NoError(t, err)
	require.Error(t, reg.Reload())
	assert.Equal(t, 1, reg.Len())
}

func TestOverrideRegistry_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"`+alice+`": "alice"}`), 0600))

	reg, err := registry.LoadOverrides(adapter.NewFileSystem(), path)
	require.NoError(t, err)
	require.Equal(t, 1, reg.Len())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, reg.Watch(ctx))

	require.NoError(t, os.WriteFile(path, []byte(`{"`+alice+`": "alice2", "`+wolf+`": "wolf"}`), 0600))

	assert.Eventually(t, func() bool {
		return reg.Len() == 2
	}, 5*time.Second, 20*time.Millisecond)

	p, err := reg.Lookup(context.Background(), alice)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "alice2", *p.ManualName)
}
