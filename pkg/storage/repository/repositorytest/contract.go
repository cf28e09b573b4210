// Package repositorytest holds the behavior every ContactsRepository backend must share.
package repositorytest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
)

// Opener returns an empty repository for one subtest.
type Opener func(t *testing.T) repository.ContactsRepository

// RunContactsContract exercises the repository contract against a backend.
func RunContactsContract(t *testing.T, open Opener) {
	t.Run("InsertAssignsIncreasingIDs", func(t *testing.T) {
		repo := open(t)
		ctx := context.Background()

		a, err := repo.Insert(ctx, "A", "a@x.com", "111")
		require.NoError(t, err)
		b, err := repo.Insert(ctx, "B", "b@x.com", "222")
		require.NoError(t, err)

		assert.Greater(t, a.ID, int64(0))
		assert.Greater(t, b.ID, a.ID)
		assert.Equal(t, "B", b.Name)
		assert.Equal(t, "b@x.com", b.Email)
		assert.Equal(t, "222", b.Phone)
	})

	t.Run("InsertRejectsDuplicateEmailOrPhone", func(t *testing.T) {
		repo := open(t)
		ctx := context.Background()

		_, err := repo.Insert(ctx, "A", "a@x.com", "111")
		require.NoError(t, err)

		_, err = repo.Insert(ctx, "B", "a@x.com", "222")
		assert.ErrorIs(t, err, repository.ErrConstraint)

		_, err = repo.Insert(ctx, "C", "c@x.com", "111")
		assert.ErrorIs(t, err, repository.ErrConstraint)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("GetByID", func(t *testing.T) {
		repo := open(t)
		ctx := context.Background()

		created, err := repo.Insert(ctx, "A", "a@x.com", "111")
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, *created, *got)

		_, err = repo.GetByID(ctx, created.ID+100)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("FindByEmailOrPhone", func(t *testing.T) {
		repo := open(t)
		ctx := context.Background()

		created, err := repo.Insert(ctx, "A", "a@x.com", "111")
		require.NoError(t, err)

		byEmail, err := repo.FindByEmailOrPhone(ctx, "a@x.com", "999")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)

		byPhone, err := repo.FindByEmailOrPhone(ctx, "z@x.com", "111")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byPhone.ID)

		_, err = repo.FindByEmailOrPhone(ctx, "z@x.com", "999")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("ListWindowsByAscendingID", func(t *testing.T) {
		repo := open(t)
		ctx := context.Background()
		seed(t, repo, 12)

		page, err := repo.List(ctx, 5, 5)
		require.NoError(t, err)
		require.Len(t, page, 5)
		for i, c := range page {
			assert.Equal(t, fmt.Sprintf("contact%02d@example.com", i+6), c.Email)
		}

		tail, err := repo.List(ctx, 10, 5)
		require.NoError(t, err)
		assert.Len(t, tail, 2)

		past, err := repo.List(ctx, 50, 5)
		require.NoError(t, err)
		assert.NotNil(t, past)
		assert.Empty(t, past)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 12, count)
	})

	t.Run("DeleteByID", func(t *testing.T) {
		repo := open(t)
		ctx := context.Background()

		created, err := repo.Insert(ctx, "A", "a@x.com", "111")
		require.NoError(t, err)

		removed, err := repo.DeleteByID(ctx, created.ID+1)
		require.NoError(t, err)
		assert.False(t, removed)

		removed, err = repo.DeleteByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("DeleteAllKeepsIDSequence", func(t *testing.T) {
		repo := open(t)
		ctx := context.Background()
		seed(t, repo, 3)

		require.NoError(t, repo.DeleteAll(ctx))
		require.NoError(t, repo.DeleteAll(ctx))

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)

		next, err := repo.Insert(ctx, "N", "n@x.com", "999")
		require.NoError(t, err)
		assert.Greater(t, next.ID, int64(3))

		// Freed values are reusable once their rows are gone.
		again, err := repo.Insert(ctx, "Again", "contact01@example.com", "5550001")
		require.NoError(t, err)
		assert.Greater(t, again.ID, next.ID)
	})

	t.Run("ConcurrentDuplicateInsertsLeaveOneRow", func(t *testing.T) {
		repo := open(t)
		ctx := context.Background()

		const workers = 8
		var wg sync.WaitGroup
		errs := make([]error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = repo.Insert(ctx, fmt.Sprintf("W%d", i), "race@x.com", fmt.Sprintf("7%03d", i))
			}(i)
		}
		wg.Wait()

		ok := 0
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, repository.ErrConstraint)
		}
		assert.Equal(t, 1, ok)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

// seed inserts n contacts named contactNN with emails contactNN@example.com and phones 555NNNN.
func seed(t *testing.T, repo repository.ContactsRepository, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := repo.Insert(context.Background(),
			fmt.Sprintf("contact%02d", i),
			fmt.Sprintf("contact%02d@example.com", i),
			fmt.Sprintf("555%04d", i),
		)
		require.NoError(t, err)
	}
}
