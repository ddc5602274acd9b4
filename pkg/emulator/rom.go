package emulator

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/cespare/xxhash"
	"github.com/pkg/errors"
)

// rom is a raw ROM image read from disk
type rom struct {
	data     []byte
	checksum uint64
}

// readROM reads a ROM image. Images inside .gz, .zip and .7z archives are
// decompressed; for .zip and .7z the first file of the archive is used.
func readROM(path string) (*rom, error) {
	data, err := readROMData(path)
	if err != nil {
		return nil, &ROMLoadError{Path: path, Err: err}
	}

	return &rom{
		data:     data,
		checksum: xxhash.Sum64(data),
	}, nil
}

func readROMData(path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		decoder, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "gzip")
		}
		defer decoder.Close()
		return readLimited(decoder)
	case ".zip":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, errors.Wrap(err, "zip")
		}
		if len(archive.File) == 0 {
			return nil, errors.New("zip archive is empty")
		}
		return readArchiveFile(archive.File[0].Open)
	case ".7z":
		archive, err := sevenzip.OpenReader(path)
		if err != nil {
			return nil, errors.Wrap(err, "7z")
		}
		defer archive.Close()

		if len(archive.File) == 0 {
			return nil, errors.New("7z archive is empty")
		}
		return readArchiveFile(archive.File[0].Open)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readLimited(f)
	}
}

func readArchiveFile(open func() (io.ReadCloser, error)) ([]byte, error) {
	rc, err := open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return readLimited(rc)
}

// readLimited reads r to the end, failing once more than 64kb were read so
// archives never decompress beyond what fits in memory
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, bytes64k+1))
	if err != nil {
		return nil, err
	}
	if len(data) > bytes64k {
		return nil, ErrROMTooLarge
	}
	return data, nil
}
