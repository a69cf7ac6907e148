package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-api/internal/models"
	"github.com/noah-isme/sma-adp-api/internal/service"
)

type roomRepoStub struct {
	items map[string]*models.Room
}

func (r *roomRepoStub) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error) {
	var out []models.Room
	for _, room := range r.items {
		out = append(out, *room)
	}
	return out, len(out), nil
}

func (r *roomRepoStub) ListActive(ctx context.Context) ([]models.Room, error) {
	return nil, nil
}

func (r *roomRepoStub) FindByID(ctx context.Context, id string) (*models.Room, error) {
	if room, ok := r.items[id]; ok {
		cp := *room
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (r *roomRepoStub) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	return false, nil
}

func (r *roomRepoStub) Create(ctx context.Context, room *models.Room) error {
	if r.items == nil {
		r.items = make(map[string]*models.Room)
	}
	room.ID = "r1"
	room.CreatedAt = time.Now()
	room.UpdatedAt = time.Now()
	cp := *room
	r.items[room.ID] = &cp
	return nil
}

func (r *roomRepoStub) Update(ctx context.Context, room *models.Room) error {
	r.items[room.ID] = room
	return nil
}

func (r *roomRepoStub) Deactivate(ctx context.Context, id string) error {
	if room, ok := r.items[id]; ok {
		room.Active = false
	}
	return nil
}

func TestRoomHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &roomRepoStub{}
	h := NewRoomHandler(service.NewRoomService(repo, nil, nil))

	payload, _ := json.Marshal(service.CreateRoomRequest{Name: "Lab 1", Capacity: 30, RoomType: "LAB"})
	req, _ := http.NewRequest(http.MethodPost, "/rooms", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestRoomHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &roomRepoStub{items: map[string]*models.Room{"r1": {ID: "r1", Name: "Lab 1", Active: true}}}
	h := NewRoomHandler(service.NewRoomService(repo, nil, nil))

	req, _ := http.NewRequest(http.MethodGet, "/rooms", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRoomHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &roomRepoStub{}
	h := NewRoomHandler(service.NewRoomService(repo, nil, nil))

	req, _ := http.NewRequest(http.MethodGet, "/rooms/missing", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Get(c)
	require.NotEqual(t, http.StatusOK, w.Code)
}

func TestRoomHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &roomRepoStub{items: map[string]*models.Room{"r1": {ID: "r1", Name: "Lab 1", Active: true}}}
	h := NewRoomHandler(service.NewRoomService(repo, nil, nil))

	req, _ := http.NewRequest(http.MethodDelete, "/rooms/r1", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "r1"}}

	h.Delete(c)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.False(t, repo.items["r1"].Active)
}
