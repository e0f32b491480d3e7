package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// Файловое хранилище под фиксированным корнем (UPLOAD_DIR).
// Все пути собираются через filepath.Join — наружу корня не выйти.

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, os.ModePerm)
}

func WriteFile(path string, data []byte) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func DeleteFile(path string) error {
	if !FileExists(path) {
		return nil
	}
	return os.Remove(path)
}

// SafeFilename обрезает путь до базового имени и выкидывает
// символы, которыми можно сломать имя файла.
func SafeFilename(name string) string {
	name = filepath.Base(name)
	repl := strings.NewReplacer(" ", "_", "..", "_", "/", "_", "\\", "_")
	return repl.Replace(name)
}

// AllowedImageExt — расширения, разрешённые для медиа-галереи.
func AllowedImageExt(name string) bool {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "png", "jpg", "jpeg", "gif", "webp":
		return true
	}
	return false
}
