package database

import (
	"io"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/storage"
)

// JobRepository keeps job records, their source uploads and produced outputs.
type JobRepository interface {
	Save(job *entity.Job) error
	FindByID(id string) (*entity.Job, error)
	Delete(id string) error

	SaveSource(id string, index int, data io.Reader) error
	LoadSource(id string, index int) ([]byte, error)

	SaveOutput(id, filename string, data io.Reader) error
	OutputPath(id, filename string) string
	OpenOutput(id, filename string) (io.ReadCloser, error)
}

type fileJobRepository struct {
	storage storage.FileStorage
}
