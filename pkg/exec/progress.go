package exec

import (
	"archive/tar"
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types"
)

// progressLine is the subset of Docker's newline-delimited pull/build JSON
// progress format this package cares about.
type progressLine struct {
	Status string `json:"status"`
	Stream string `json:"stream"`
	Error  string `json:"error"`
}

// drainProgress reads a pull/build response body line by line, invoking
// onProgress with a human-readable line for each one, and returns an error
// if the stream itself reports one.
func drainProgress(r io.Reader, onProgress func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p progressLine
		if err := json.Unmarshal(line, &p); err != nil {
			continue
		}
		if p.Error != "" {
			return errString(p.Error)
		}
		if onProgress == nil {
			continue
		}
		if p.Stream != "" {
			onProgress(p.Stream)
		} else if p.Status != "" {
			onProgress(p.Status)
		}
	}
	return scanner.Err()
}

type errString string

func (e errString) Error() string { return string(e) }

func buildOptions(tag string) types.ImageBuildOptions {
	return types.ImageBuildOptions{
		Tags:       []string{tag},
		Dockerfile: "Dockerfile",
		Remove:     true,
	}
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// tarDirectory packages a build context directory into a tar stream
// suitable for ImageBuild, since the Docker API accepts a build context
// only as a tar archive.
func tarDirectory(root string) (io.Reader, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := readFile(path)
		if err != nil {
			return err
		}
		hdr := &tar.Header{Name: rel, Mode: 0o644, Size: int64(len(data))}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		_, err = tw.Write(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}
