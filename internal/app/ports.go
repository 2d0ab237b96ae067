package app

import (
	"context"
	"io/fs"
)

type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, url, destination string) error
}
