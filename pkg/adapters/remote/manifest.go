package remote

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

// DefaultResourceName is the file name the server publishes the strings under.
const DefaultResourceName = "pvz2_l.txt"

// Manifest is the server's file list entry for a string resource.
type Manifest struct {
	File ManifestFile `json:"File"`
}

// ManifestFile names a resource and its MD5 digest in lowercase hex.
type ManifestFile struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
}

// NewManifest hashes r and returns the entry for name.
func NewManifest(r io.Reader, name string) (Manifest, error) {
	h := md5.New()
	if _, err := io.Copy(h, r); err != nil {
		return Manifest{}, fmt.Errorf("failed to hash %s: %w", name, err)
	}
	return Manifest{File: ManifestFile{
		Name: name,
		Hash: hex.EncodeToString(h.Sum(nil)),
	}}, nil
}

// WriteTo writes the manifest as indented JSON.
func (m Manifest) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	n, err := w.Write(data)
	return int64(n), err
}
