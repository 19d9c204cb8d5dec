package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// moveSizeThreshold is the size above which a file is renamed in place
// instead of copied to the output directory.
const moveSizeThreshold = 200 * 1024 * 1024

var unsafeNameChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]`)

// SanitizeName strips path separators and other characters unsafe in
// filenames from a model-proposed base name.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = unsafeNameChars.ReplaceAllString(name, " ")
	name = strings.Join(strings.Fields(name), " ")
	return strings.Trim(name, ". ")
}

// Place renames or copies srcPath to carry newBase plus the original
// extension. Files over 200MB are renamed within their own directory;
// smaller files are copied into outputDir. Returns the destination path and
// whether the original was moved rather than copied.
func Place(srcPath, outputDir, newBase string) (string, bool, error) {
	newBase = SanitizeName(newBase)
	if newBase == "" {
		return "", false, fmt.Errorf("place %s: empty target name", srcPath)
	}

	info, err := os.Stat(srcPath)
	if err != nil {
		return "", false, fmt.Errorf("place %s: %w", srcPath, err)
	}

	newName := newBase + strings.ToLower(filepath.Ext(srcPath))

	if info.Size() > moveSizeThreshold {
		dest := filepath.Join(filepath.Dir(srcPath), newName)
		if err := os.Rename(srcPath, dest); err != nil {
			return "", false, fmt.Errorf("rename %s: %w", srcPath, err)
		}
		return dest, true, nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", false, fmt.Errorf("ensure output dir: %w", err)
	}
	dest := filepath.Join(outputDir, newName)
	if err := copyFile(srcPath, dest); err != nil {
		return "", false, fmt.Errorf("copy %s: %w", srcPath, err)
	}
	return dest, false, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// Preserve the source modification time on the copy.
	if info, err := os.Stat(src); err == nil {
		os.Chtimes(dst, info.ModTime(), info.ModTime())
	}
	return nil
}
