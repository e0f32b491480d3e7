package services

import (
	"context"
	"dhrubfoundation/internal/models"
	"dhrubfoundation/internal/repository"
	"errors"
	"os"
	"testing"
)

type mockMediaRepo struct {
	files  map[int]*models.MediaFile
	nextID int
}

func newMockMediaRepo() *mockMediaRepo {
	return &mockMediaRepo{files: make(map[int]*models.MediaFile), nextID: 1}
}

func (m *mockMediaRepo) CreateMedia(_ context.Context, f *models.MediaFile) error {
	f.ID = m.nextID
	m.nextID++
	m.files[f.ID] = f
	return nil
}

func (m *mockMediaRepo) GetMediaByID(_ context.Context, id int) (*models.MediaFile, error) {
	f, ok := m.files[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return f, nil
}

func (m *mockMediaRepo) GetAllMedia(_ context.Context) ([]*models.MediaFile, error) {
	out := make([]*models.MediaFile, 0, len(m.files))
	for _, f := range m.files {
		out = append(out, f)
	}
	return out, nil
}

func (m *mockMediaRepo) DeleteMedia(_ context.Context, id int) error {
	if _, ok := m.files[id]; !ok {
		return repository.ErrNoRows
	}
	delete(m.files, id)
	return nil
}

func TestMediaUploadAndDelete(t *testing.T) {
	repo := newMockMediaRepo()
	service := NewMediaService(repo, NewActivityService(&mockActivityRepo{}), t.TempDir())

	// неподдерживаемое расширение отклоняется до записи на диск
	_, err := service.Upload(context.Background(), "report.exe", []byte{1}, 1, "")
	var fields ValidationErrors
	if !errors.As(err, &fields) || fields["file"] == "" {
		t.Fatalf("ожидалась ошибка валидации файла, получено %v", err)
	}

	m, err := service.Upload(context.Background(), "photo.jpg", []byte("fake-jpeg"), 1, "127.0.0.1")
	if err != nil {
		t.Fatalf("ошибка загрузки: %v", err)
	}
	if _, err := os.Stat(m.Filepath); err != nil {
		t.Fatalf("файл не записан: %v", err)
	}

	list, err := service.List(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("галерея должна содержать 1 файл: %v", err)
	}

	if err := service.Delete(context.Background(), m.ID, 1, ""); err != nil {
		t.Fatalf("ошибка удаления: %v", err)
	}
	if _, err := os.Stat(m.Filepath); !os.IsNotExist(err) {
		t.Fatal("файл должен быть удалён вместе со строкой")
	}

	if err := service.Delete(context.Background(), 999, 1, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получено %v", err)
	}
}
