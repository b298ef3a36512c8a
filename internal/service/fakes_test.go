package service

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/pkg/storage"
)

type fakeRefs struct {
	students    map[int64]bool
	programs    map[int64]bool
	supervisors map[string]bool
	courses     map[int64]bool
}

func newFakeRefs() *fakeRefs {
	return &fakeRefs{
		students:    map[int64]bool{2101: true, 2102: true},
		programs:    map[int64]bool{1: true},
		supervisors: map[string]bool{"1987": true},
		courses:     map[int64]bool{1: true, 2: true, 3: true},
	}
}

func (f *fakeRefs) StudentExists(ctx context.Context, nim int64) (bool, error) {
	return f.students[nim], nil
}

func (f *fakeRefs) ProgramExists(ctx context.Context, id int64) (bool, error) {
	return f.programs[id], nil
}

func (f *fakeRefs) SupervisorExists(ctx context.Context, nip string) (bool, error) {
	return f.supervisors[nip], nil
}

func (f *fakeRefs) MissingCourseIDs(ctx context.Context, ids []int64) ([]int64, error) {
	var missing []int64
	for _, id := range ids {
		if !f.courses[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type fakeQueue struct {
	jobs []ObjectDeletion
	err  error
}

func (q *fakeQueue) Enqueue(jobType string, payload interface{}) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.jobs = append(q.jobs, payload.(ObjectDeletion))
	return "job-1", nil
}

type fakeStore struct {
	puts    []string
	deleted []string
	putErr  error
}

func (s *fakeStore) Put(ctx context.Context, folder, filename, contentType string, r io.Reader) (storage.Object, error) {
	if s.putErr != nil {
		return storage.Object{}, s.putErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return storage.Object{}, err
	}
	key := folder + "/" + filename
	s.puts = append(s.puts, key)
	return storage.Object{Key: key, URL: "http://localhost:5000/uploads/" + key}, nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

type fakeChecker struct {
	err error
}

func (c fakeChecker) Check(r io.Reader, size int64) (string, io.Reader, error) {
	if c.err != nil {
		return "", nil, c.err
	}
	return "application/pdf", r, nil
}

type fakeRecorder struct {
	kinds []string
}

func (r *fakeRecorder) RecordUpload(kind string, size int64) {
	if r == nil {
		return
	}
	r.kinds = append(r.kinds, kind)
}

func pdfUpload(name string) dto.Upload {
	content := []byte("%PDF-1.4 test")
	return dto.Upload{Filename: name, Size: int64(len(content)), Content: bytes.NewReader(content)}
}

type fakeRegistrationRepo struct {
	items     map[int64]*models.RegistrationDetail
	links     map[int64][]int64
	nextID    int64
	createErr error
	creates   int
	updates   int
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{items: map[int64]*models.RegistrationDetail{}, links: map[int64][]int64{}, nextID: 1}
}

func (f *fakeRegistrationRepo) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, error) {
	out := make([]models.RegistrationDetail, 0)
	for _, item := range f.items {
		if filter.NIM != nil && item.NIM != *filter.NIM {
			continue
		}
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeRegistrationRepo) FindByID(ctx context.Context, id int64) (*models.RegistrationDetail, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *item
	copied.Courses = make([]models.ConversionCourse, 0, len(f.links[id]))
	for _, courseID := range f.links[id] {
		copied.Courses = append(copied.Courses, models.ConversionCourse{ID: courseID})
	}
	return &copied, nil
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *models.Registration, courseIDs []int64) error {
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	reg.ID = f.nextID
	f.nextID++
	reg.CreatedAt, reg.UpdatedAt = time.Now(), time.Now()
	f.items[reg.ID] = &models.RegistrationDetail{Registration: *reg}
	f.links[reg.ID] = append([]int64(nil), courseIDs...)
	return nil
}

func (f *fakeRegistrationRepo) Update(ctx context.Context, id int64, changes map[string]interface{}, courseIDs *[]int64) error {
	f.updates++
	item, ok := f.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	if status, ok := changes["status"].(string); ok {
		item.Status = models.RegistrationStatus(status)
	}
	if nim, ok := changes["nim"].(int64); ok {
		item.NIM = nim
	}
	if courseIDs != nil {
		f.links[id] = append([]int64{}, (*courseIDs)...)
	}
	return nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.items, id)
	delete(f.links, id)
	return nil
}
