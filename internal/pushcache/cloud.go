package pushcache

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// CloudMirror optionally syncs a PushToken to a blob in an Azure Storage
// container, so several neolink instances (e.g. a primary host and a
// failover) can share one push registration instead of each registering
// its own.
type CloudMirror struct {
	client    *azblob.Client
	container string
	blob      string
}

// NewCloudMirror builds a mirror against accountURL/container/blob,
// authenticating with the ambient Azure identity (managed identity,
// environment credentials, or `az login` session) via
// azidentity.NewDefaultAzureCredential.
func NewCloudMirror(accountURL, container, blob string) (*CloudMirror, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("pushcache: azure credential: %w", err)
	}
	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("pushcache: azure client: %w", err)
	}
	return &CloudMirror{client: client, container: container, blob: blob}, nil
}

// Upload writes t's encoded form to the configured blob, overwriting any
// prior contents.
func (m *CloudMirror) Upload(ctx context.Context, t PushToken) error {
	var buf bytes.Buffer
	if err := t.encode(&buf); err != nil {
		return err
	}
	_, err := m.client.UploadBuffer(ctx, m.container, m.blob, buf.Bytes(), nil)
	if err != nil {
		return fmt.Errorf("pushcache: upload blob %s/%s: %w", m.container, m.blob, err)
	}
	return nil
}

// Download fetches and decodes the token currently stored in the blob.
func (m *CloudMirror) Download(ctx context.Context) (PushToken, error) {
	resp, err := m.client.DownloadStream(ctx, m.container, m.blob, nil)
	if err != nil {
		return PushToken{}, fmt.Errorf("pushcache: download blob %s/%s: %w", m.container, m.blob, err)
	}
	defer resp.Body.Close()
	return decodeToken(resp.Body)
}
