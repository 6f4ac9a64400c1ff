package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"todoweb/internal/config"
	"todoweb/internal/database"
	"todoweb/internal/service"
)

type Server struct {
	port        int
	todoService service.TodoService
	authService service.AuthService
	db          database.Service
}

func NewServer(cfg *config.Config, todoService service.TodoService, authService service.AuthService, dbService database.Service) *http.Server {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		log.Printf("Warning: Invalid PORT value %q. Using default 8080. Error: %v", cfg.Port, err)
		port = 8080
	}

	appServer := &Server{
		port:        port,
		todoService: todoService,
		authService: authService,
		db:          dbService,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
