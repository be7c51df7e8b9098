package like

import (
	"context"
	"errors"
	"testing"

	"github.com/jobhub/jobhub/internal/model"
	"github.com/jobhub/jobhub/internal/repository"
	"github.com/lib/pq"
)

// mockLikeRepo はrepository.LikeRepositoryのモック実装。
type mockLikeRepo struct {
	findByUserAndJobFunc func(ctx context.Context, userID, jobID string) (*model.Like, error)
	createFunc           func(ctx context.Context, like *model.Like) error
	deleteFunc           func(ctx context.Context, id string) error
	countByJobIDFunc     func(ctx context.Context, jobID string) (int, error)
}

func (m *mockLikeRepo) FindByUserAndJob(ctx context.Context, userID, jobID string) (*model.Like, error) {
	return m.findByUserAndJobFunc(ctx, userID, jobID)
}

func (m *mockLikeRepo) Create(ctx context.Context, like *model.Like) error {
	return m.createFunc(ctx, like)
}

func (m *mockLikeRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockLikeRepo) CountByJobID(ctx context.Context, jobID string) (int, error) {
	return m.countByJobIDFunc(ctx, jobID)
}

// mockJobRepo はrepository.JobRepositoryのモック実装。
type mockJobRepo struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Job, error)
}

func (m *mockJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockJobRepo) List(ctx context.Context, filter repository.JobFilter) ([]*model.Job, error) {
	return nil, nil
}

func (m *mockJobRepo) Create(ctx context.Context, job *model.Job) error { return nil }

func (m *mockJobRepo) Update(ctx context.Context, job *model.Job) error { return nil }

func (m *mockJobRepo) Delete(ctx context.Context, id string) error { return nil }

// recordingNotifier はLikeUpdatedの呼び出しを捕捉する。
type recordingNotifier struct {
	jobID string
	count int
	calls int
}

func (r *recordingNotifier) LikeUpdated(jobID string, count int) {
	r.jobID = jobID
	r.count = count
	r.calls++
}

// recordingMetrics はRecordLikeToggledの呼び出しを捕捉する。
type recordingMetrics struct {
	liked []bool
}

func (r *recordingMetrics) RecordLikeToggled(jobID string, liked bool) {
	r.liked = append(r.liked, liked)
}

func existingJobRepo() *mockJobRepo {
	return &mockJobRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Job, error) {
			return &model.Job{ID: id}, nil
		},
	}
}

func TestToggle_LikeOn(t *testing.T) {
	var created *model.Like
	likeRepo := &mockLikeRepo{
		findByUserAndJobFunc: func(ctx context.Context, userID, jobID string) (*model.Like, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, like *model.Like) error {
			created = like
			return nil
		},
		countByJobIDFunc: func(ctx context.Context, jobID string) (int, error) {
			return 5, nil
		},
	}
	notifier := &recordingNotifier{}
	metrics := &recordingMetrics{}
	svc := NewService(likeRepo, existingJobRepo(), notifier, metrics)

	result, err := svc.Toggle(context.Background(), "j-1", "u-1")
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}

	if !result.Liked {
		t.Error("Liked = false, want true")
	}
	if result.Count != 5 {
		t.Errorf("Count = %d, want 5", result.Count)
	}
	if created == nil {
		t.Fatal("Create was not called")
	}
	if created.JobID != "j-1" || created.UserID != "u-1" {
		t.Errorf("created like = {JobID: %q, UserID: %q}, want {j-1, u-1}", created.JobID, created.UserID)
	}
	if notifier.calls != 1 || notifier.count != 5 {
		t.Errorf("notifier: calls = %d, count = %d, want 1 and 5", notifier.calls, notifier.count)
	}
	if len(metrics.liked) != 1 || !metrics.liked[0] {
		t.Errorf("metrics.liked = %v, want [true]", metrics.liked)
	}
}

func TestToggle_LikeOff(t *testing.T) {
	var deletedID string
	likeRepo := &mockLikeRepo{
		findByUserAndJobFunc: func(ctx context.Context, userID, jobID string) (*model.Like, error) {
			return &model.Like{ID: "like-1", JobID: jobID, UserID: userID}, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
		countByJobIDFunc: func(ctx context.Context, jobID string) (int, error) {
			return 4, nil
		},
	}
	metrics := &recordingMetrics{}
	svc := NewService(likeRepo, existingJobRepo(), nil, metrics)

	result, err := svc.Toggle(context.Background(), "j-1", "u-1")
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}

	if result.Liked {
		t.Error("Liked = true, want false")
	}
	if result.Count != 4 {
		t.Errorf("Count = %d, want 4", result.Count)
	}
	if deletedID != "like-1" {
		t.Errorf("deleted ID = %q, want %q", deletedID, "like-1")
	}
	if len(metrics.liked) != 1 || metrics.liked[0] {
		t.Errorf("metrics.liked = %v, want [false]", metrics.liked)
	}
}

func TestToggle_JobNotFound(t *testing.T) {
	jobRepo := &mockJobRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Job, error) {
			return nil, nil
		},
	}
	svc := NewService(&mockLikeRepo{}, jobRepo, nil, nil)

	_, err := svc.Toggle(context.Background(), "j-missing", "u-1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeJobNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeJobNotFound)
	}
}

func TestToggle_LostCreationRace(t *testing.T) {
	likeRepo := &mockLikeRepo{
		findByUserAndJobFunc: func(ctx context.Context, userID, jobID string) (*model.Like, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, like *model.Like) error {
			// 同時トグルに競り負けた
			return &pq.Error{Code: "23505"}
		},
		countByJobIDFunc: func(ctx context.Context, jobID string) (int, error) {
			return 1, nil
		},
	}
	svc := NewService(likeRepo, existingJobRepo(), nil, nil)

	result, err := svc.Toggle(context.Background(), "j-1", "u-1")
	if err != nil {
		t.Fatalf("Toggle should not fail on creation race: %v", err)
	}
	if !result.Liked {
		t.Error("Liked = false, want true after lost race")
	}
}

func TestToggle_CreateFailure(t *testing.T) {
	likeRepo := &mockLikeRepo{
		findByUserAndJobFunc: func(ctx context.Context, userID, jobID string) (*model.Like, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, like *model.Like) error {
			return errors.New("connection refused")
		},
	}
	svc := NewService(likeRepo, existingJobRepo(), nil, nil)

	_, err := svc.Toggle(context.Background(), "j-1", "u-1")
	if err == nil {
		t.Fatal("expected error for non-constraint create failure, got nil")
	}
}

func TestCountByJob_Success(t *testing.T) {
	likeRepo := &mockLikeRepo{
		countByJobIDFunc: func(ctx context.Context, jobID string) (int, error) {
			return 7, nil
		},
	}
	svc := NewService(likeRepo, existingJobRepo(), nil, nil)

	count, err := svc.CountByJob(context.Background(), "j-1")
	if err != nil {
		t.Fatalf("CountByJob returned error: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
}

func TestCountByJob_JobNotFound(t *testing.T) {
	jobRepo := &mockJobRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Job, error) {
			return nil, nil
		},
	}
	svc := NewService(&mockLikeRepo{}, jobRepo, nil, nil)

	_, err := svc.CountByJob(context.Background(), "j-missing")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeJobNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeJobNotFound)
	}
}

func TestCheckMine(t *testing.T) {
	tests := []struct {
		name     string
		existing *model.Like
		want     bool
	}{
		{name: "いいね済み", existing: &model.Like{ID: "like-1"}, want: true},
		{name: "未いいね", existing: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			likeRepo := &mockLikeRepo{
				findByUserAndJobFunc: func(ctx context.Context, userID, jobID string) (*model.Like, error) {
					return tt.existing, nil
				},
			}
			svc := NewService(likeRepo, existingJobRepo(), nil, nil)

			got, err := svc.CheckMine(context.Background(), "j-1", "u-1")
			if err != nil {
				t.Fatalf("CheckMine returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckMine = %v, want %v", got, tt.want)
			}
		})
	}
}
