package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
	"github.com/pageza/alchemorsel-ideas/backend/internal/store"
	"github.com/pageza/alchemorsel-ideas/backend/internal/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}

func TestFailHook(t *testing.T) {
	st := New()
	boom := errors.New("disk full")
	st.Fail = func(op string) error {
		if op == "CreateSession" {
			return boom
		}
		return nil
	}

	err := st.CreateSession(context.Background(), &model.IdeaSession{ID: "s1", UserID: "u1"})
	assert.ErrorIs(t, err, boom)

	_, err = st.GetSession(context.Background(), "s1", "u1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
