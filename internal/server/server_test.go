package server

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/bootstrap"
	"github.com/likhit-sai/CogniFlow/internal/config"
	"github.com/likhit-sai/CogniFlow/internal/controller"
	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/pkg/logger"
	"github.com/likhit-sai/CogniFlow/internal/repository/memory"
	"github.com/likhit-sai/CogniFlow/internal/seed"
	"github.com/likhit-sai/CogniFlow/internal/service"
	"github.com/likhit-sai/CogniFlow/internal/websocket"
	"github.com/likhit-sai/CogniFlow/pkg/ai/assist"
	"github.com/likhit-sai/CogniFlow/pkg/ai/planner"
	"github.com/likhit-sai/CogniFlow/pkg/llm/llmtest"
	"github.com/likhit-sai/CogniFlow/pkg/persistence"
	"github.com/likhit-sai/CogniFlow/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ShutdownSavesAcceptedEdits(t *testing.T) {
	repo := memory.NewWorkspaceRepository(memory.WithSeed(func() []*entity.Item {
		return seed.Workspace(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	}))
	log := logger.NewNopLogger()
	svc := service.NewWorkspaceService(
		repo,
		store.New(),
		memory.NewPlanRepository(time.Minute),
		planner.NewLLMPlanner(&llmtest.Stub{Response: "[]"}),
		assist.NewAssistant(&llmtest.Stub{Response: "done"}),
		nil,
		log,
		// The debounce never fires, so only Shutdown can write the edit.
		service.WorkspaceServiceOpts{Scheduler: persistence.SchedulerOpts{Debounce: time.Hour, SaveTimeout: time.Second}},
	)
	require.NoError(t, svc.Load(context.Background()))

	cfg := &config.Config{App: config.AppConfig{CorsAllowedOrigins: "http://localhost:5173"}}
	srv := New(cfg, &bootstrap.Container{
		Logger:              log,
		WorkspaceService:    svc,
		WorkspaceController: controller.NewWorkspaceController(svc),
		WebSocketHub:        websocket.NewHub(nil, log),
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	client := &http.Client{Timeout: 2 * time.Second}
	url := "http://" + ln.Addr().String() + "/api/workspace/v1/items"
	body := []byte(`{"name":"Late note","type":"page"}`)

	res, err := client.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, 0, repo.SaveCount())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	<-served

	assert.Equal(t, 1, repo.SaveCount())
	saved, err := repo.FetchAll(context.Background())
	require.NoError(t, err)
	var names []string
	for _, it := range saved {
		names = append(names, it.Name)
	}
	assert.Contains(t, names, "Late note")

	_, err = client.Post(url, "application/json", bytes.NewReader(body))
	assert.Error(t, err, "no edits are taken after the final save")
}
