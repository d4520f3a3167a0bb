package service

import (
    "bytes"
    "context"
    "fmt"
    "path/filepath"

    "github.com/local/vibedoc/internal/filetype"
    "github.com/local/vibedoc/internal/storage"
)

// Upload is a file received from a client.
type Upload struct {
    FileName string
    Data     []byte
}

type storedFile struct {
    CloudName string
    FileName  string
    FileType  string
    FileSize  int64
}

// storePDF checks the magic bytes and writes the file under a fresh cloud name.
func storePDF(ctx context.Context, store storage.Store, field string, up Upload) (storedFile, error) {
    if err := filetype.RequirePDF(field, up.Data); err != nil { return storedFile{}, err }
    name := filepath.Base(up.FileName)
    if name == "." || name == "/" { name = "" }
    sf := storedFile{
        CloudName: storage.CloudName(name),
        FileName:  name,
        FileType:  filetype.PDF,
        FileSize:  int64(len(up.Data)),
    }
    if sf.FileName == "" { sf.FileName = sf.CloudName }
    if err := store.Put(ctx, sf.CloudName, sf.FileType, bytes.NewReader(up.Data), sf.FileSize); err != nil {
        return storedFile{}, fmt.Errorf("store %s: %w", sf.CloudName, err)
    }
    return sf, nil
}
