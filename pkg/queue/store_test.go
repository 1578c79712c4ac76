package queue

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sf1tzp/symbology/ent/job"
	testdb "github.com/sf1tzp/symbology/test/database"
)

func TestStore_ClaimNext_PriorityThenCreatedAt(t *testing.T) {
	client := testdb.NewTestClient(t)
	store := NewStore(client.Client)
	ctx := context.Background()

	low, err := store.Create(ctx, CreateParams{JobType: job.JobTypeTest, Priority: intPtr(5)})
	require.NoError(t, err)
	high, err := store.Create(ctx, CreateParams{JobType: job.JobTypeTest, Priority: intPtr(1)})
	require.NoError(t, err)
	lowLater, err := store.Create(ctx, CreateParams{JobType: job.JobTypeTest, Priority: intPtr(5)})
	require.NoError(t, err)

	claimed, err := store.ClaimNext(ctx, "worker-1")
	require.NoError(t, err)
	assert.Equal(t, high.ID, claimed.ID, "lower priority value must claim first")
	assert.Equal(t, job.StatusInProgress, claimed.Status)
	assert.Equal(t, "worker-1", *claimed.WorkerID)

	claimed2, err := store.ClaimNext(ctx, "worker-1")
	require.NoError(t, err)
	assert.Equal(t, low.ID, claimed2.ID, "equal priority must claim the older job first")

	claimed3, err := store.ClaimNext(ctx, "worker-1")
	require.NoError(t, err)
	assert.Equal(t, lowLater.ID, claimed3.ID)

	_, err = store.ClaimNext(ctx, "worker-1")
	assert.ErrorIs(t, err, ErrNoJobsAvailable)
}

func TestStore_ClaimNext_NoDoubleClaimUnderConcurrency(t *testing.T) {
	client := testdb.NewTestClient(t)
	store := NewStore(client.Client)
	ctx := context.Background()

	const n = 10
	for i := 0; i < n; i++ {
		_, err := store.Create(ctx, CreateParams{JobType: job.JobTypeTest})
		require.NoError(t, err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claimed = make(map[string]bool)
	)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(workerID string) {
			defer wg.Done()
			for {
				j, err := store.ClaimNext(ctx, workerID)
				if err != nil {
					return
				}
				mu.Lock()
				assert.False(t, claimed[j.ID], "job %s claimed by more than one worker", j.ID)
				claimed[j.ID] = true
				mu.Unlock()
			}
		}(workerIDFor(w))
	}
	wg.Wait()

	assert.Len(t, claimed, n)
}

func workerIDFor(i int) string {
	return []string{"w0", "w1", "w2", "w3"}[i]
}

func intPtr(i int) *int {
	return &i
}

func TestStore_Fail_RetriesThenFails(t *testing.T) {
	client := testdb.NewTestClient(t)
	store := NewStore(client.Client)
	ctx := context.Background()

	created, err := store.Create(ctx, CreateParams{JobType: job.JobTypeTest, MaxRetries: intPtr(1)})
	require.NoError(t, err)

	claimed, err := store.ClaimNext(ctx, "worker-1")
	require.NoError(t, err)
	require.Equal(t, created.ID, claimed.ID)

	afterFirstFail, err := store.Fail(ctx, claimed.ID, "boom")
	require.NoError(t, err)
	assert.Equal(t, job.StatusPending, afterFirstFail.Status, "first failure must requeue since retry_count <= max_retries")
	assert.Equal(t, 1, afterFirstFail.RetryCount)

	reclaimed, err := store.ClaimNext(ctx, "worker-2")
	require.NoError(t, err)
	require.Equal(t, created.ID, reclaimed.ID)

	afterSecondFail, err := store.Fail(ctx, reclaimed.ID, "boom again")
	require.NoError(t, err)
	assert.Equal(t, job.StatusFailed, afterSecondFail.Status, "second failure exceeds max_retries and must terminate")
	assert.Equal(t, 2, afterSecondFail.RetryCount)
}

func TestStore_Fail_IdempotentOnTerminalStatus(t *testing.T) {
	client := testdb.NewTestClient(t)
	store := NewStore(client.Client)
	ctx := context.Background()

	created, err := store.Create(ctx, CreateParams{JobType: job.JobTypeTest})
	require.NoError(t, err)
	claimed, err := store.ClaimNext(ctx, "worker-1")
	require.NoError(t, err)
	completed, err := store.Complete(ctx, claimed.ID, map[string]any{"ok": true})
	require.NoError(t, err)
	require.Equal(t, created.ID, completed.ID)

	again, err := store.Fail(ctx, completed.ID, "too late")
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompleted, again.Status, "Fail on a completed job is a no-op")
}

func TestStore_Cancel_OnlyFromPending(t *testing.T) {
	client := testdb.NewTestClient(t)
	store := NewStore(client.Client)
	ctx := context.Background()

	created, err := store.Create(ctx, CreateParams{JobType: job.JobTypeTest})
	require.NoError(t, err)

	claimed, err := store.ClaimNext(ctx, "worker-1")
	require.NoError(t, err)
	require.Equal(t, created.ID, claimed.ID)

	_, err = store.Cancel(ctx, claimed.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "cannot cancel a job that is already in_progress")

	other, err := store.Create(ctx, CreateParams{JobType: job.JobTypeTest})
	require.NoError(t, err)
	cancelled, err := store.Cancel(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCancelled, cancelled.Status)
}

func TestStore_RequeueFailed(t *testing.T) {
	client := testdb.NewTestClient(t)
	store := NewStore(client.Client)
	ctx := context.Background()

	created, err := store.Create(ctx, CreateParams{JobType: job.JobTypeTest, MaxRetries: intPtr(0)})
	require.NoError(t, err)
	claimed, err := store.ClaimNext(ctx, "worker-1")
	require.NoError(t, err)
	require.Equal(t, created.ID, claimed.ID)
	failed, err := store.Fail(ctx, claimed.ID, "permanent")
	require.NoError(t, err)
	require.Equal(t, job.StatusFailed, failed.Status)

	requeued, err := store.RequeueFailed(ctx, job.JobTypeTest)
	require.NoError(t, err)
	require.Len(t, requeued, 1)
	assert.Equal(t, job.StatusPending, requeued[0].Status)
	assert.Equal(t, 0, requeued[0].RetryCount)
	assert.Nil(t, requeued[0].WorkerID)
}
