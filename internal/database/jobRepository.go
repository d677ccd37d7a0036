package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/ds124wfegd/imagekit/internal/pkg/storage"
)

func NewJobRepository(storage storage.FileStorage) JobRepository {
	return &fileJobRepository{storage: storage}
}

func (r *fileJobRepository) Save(job *entity.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.storage.Save(r.metadataPath(job.ID), bytes.NewReader(data))
}

func (r *fileJobRepository) FindByID(id string) (*entity.Job, error) {
	reader, err := r.storage.Get(r.metadataPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", entity.ErrJobNotFound, id)
		}
		return nil, err
	}
	defer reader.Close()

	var job entity.Job
	if err := json.NewDecoder(reader).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *fileJobRepository) Delete(id string) error {
	if !r.storage.Exists(r.metadataPath(id)) {
		return fmt.Errorf("%w: %s", entity.ErrJobNotFound, id)
	}
	if err := r.storage.Delete(r.metadataPath(id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := r.storage.Delete(path.Join("jobs", id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (r *fileJobRepository) SaveSource(id string, index int, data io.Reader) error {
	return r.storage.Save(r.sourcePath(id, index), data)
}

func (r *fileJobRepository) LoadSource(id string, index int) ([]byte, error) {
	return r.storage.ReadAll(r.sourcePath(id, index))
}

func (r *fileJobRepository) SaveOutput(id, filename string, data io.Reader) error {
	return r.storage.Save(r.OutputPath(id, filename), data)
}

func (r *fileJobRepository) OutputPath(id, filename string) string {
	return path.Join("jobs", id, "outputs", path.Base(filename))
}

func (r *fileJobRepository) OpenOutput(id, filename string) (io.ReadCloser, error) {
	rc, err := r.storage.Get(r.OutputPath(id, filename))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: output %s of %s", entity.ErrJobNotFound, filename, id)
	}
	return rc, err
}

func (r *fileJobRepository) metadataPath(id string) string {
	return path.Join("metadata", id+".json")
}

// исходники хранятся по номеру, имена файлов лежат в job.Sources
func (r *fileJobRepository) sourcePath(id string, index int) string {
	return path.Join("jobs", id, "sources", strconv.Itoa(index))
}
