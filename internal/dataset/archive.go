package dataset

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractArchive extracts every .csv member of a ZIP archive into destDir
// and returns the extracted paths. Non-CSV members are skipped. Member names
// are flattened to their base name so archive layout cannot escape destDir.
func ExtractArchive(archivePath, destDir string) ([]string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("create extraction directory: %w", err)
	}

	var extracted []string
	for _, member := range zr.File {
		if member.FileInfo().IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(member.Name), ".csv") {
			continue
		}

		outPath := filepath.Join(destDir, filepath.Base(member.Name))
		if err := extractMember(member, outPath); err != nil {
			return nil, fmt.Errorf("extract %s: %w", member.Name, err)
		}
		extracted = append(extracted, outPath)
	}

	if len(extracted) == 0 {
		return nil, fmt.Errorf("archive %s contains no CSV members", archivePath)
	}
	return extracted, nil
}

func extractMember(member *zip.File, outPath string) error {
	src, err := member.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return nil
}
