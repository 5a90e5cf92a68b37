package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	jobKeyPrefix = "aic:job:"
	jobIndexKey  = "aic:jobs"
	jobTTL       = 24 * time.Hour
)

type redisRegistry struct {
	client *redis.Client
}

// NewRedisRegistry connects to Redis and returns a registry that survives
// process restarts for up to 24h per job.
func NewRedisRegistry(addr, password string) (Registry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRegistry{client: client}, nil
}

func (r *redisRegistry) Put(ctx context.Context, job Job) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	job.UpdatedAt = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	key := jobKeyPrefix + job.GeneratedName
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, jobTTL)
	pipe.SAdd(ctx, jobIndexKey, job.GeneratedName)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store job: %w", err)
	}
	return nil
}

func (r *redisRegistry) Get(ctx context.Context, generatedName string) (Job, error) {
	data, err := r.client.Get(ctx, jobKeyPrefix+generatedName).Bytes()
	if err == redis.Nil {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("load job: %w", err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("unmarshal job: %w", err)
	}
	return job, nil
}

func (r *redisRegistry) SetStatus(ctx context.Context, generatedName string, status Status) error {
	return r.update(ctx, generatedName, func(job *Job) {
		job.Status = status
	})
}

func (r *redisRegistry) SetResult(ctx context.Context, generatedName, outputPath string) error {
	return r.update(ctx, generatedName, func(job *Job) {
		job.OutputPath = outputPath
	})
}

func (r *redisRegistry) List(ctx context.Context) ([]Job, error) {
	names, err := r.client.SMembers(ctx, jobIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	out := make([]Job, 0, len(names))
	for _, name := range names {
		job, err := r.Get(ctx, name)
		if err == ErrNotFound {
			// expired entry, drop it from the index
			r.client.SRem(ctx, jobIndexKey, name)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, nil
}

func (r *redisRegistry) update(ctx context.Context, generatedName string, apply func(*Job)) error {
	job, err := r.Get(ctx, generatedName)
	if err != nil {
		return err
	}

	apply(&job)
	job.UpdatedAt = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := r.client.Set(ctx, jobKeyPrefix+generatedName, data, jobTTL).Err(); err != nil {
		return fmt.Errorf("store job: %w", err)
	}
	return nil
}
