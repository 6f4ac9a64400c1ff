package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"todoweb/internal/domain"
	"todoweb/internal/service"

	"github.com/go-chi/chi/v5"
)

// todoIDParam parses the {id} route parameter. A non-numeric or zero id can
// never name an existing row, so callers treat a false return as not found.
func todoIDParam(r *http.Request) (uint, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())
	params := r.URL.Query()

	// Non-numeric and non-positive pages are clamped to the first page
	// rather than propagated into a negative offset.
	page, err := strconv.Atoi(params.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	query := service.ListTodosQuery{
		Page:   page,
		Search: params.Get("search"),
	}
	if v := params.Get("completed"); v == "true" || v == "false" {
		completed := v == "true"
		query.Completed = &completed
	}

	list, err := s.todoService.ListTodos(r.Context(), ownerID, query)
	if err != nil {
		log.Printf("Error calling ListTodos service: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, list)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&req)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxError):
			msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
			respondWithError(w, http.StatusBadRequest, msg)
		case errors.Is(err, io.ErrUnexpectedEOF):
			respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
			respondWithError(w, http.StatusBadRequest, msg)
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Request body contains unknown field %s", fieldName))
		case errors.Is(err, io.EOF):
			respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
		default:
			log.Printf("Error decoding create todo request: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	todo, err := s.todoService.CreateTodo(r.Context(), ownerFromContext(r.Context()), req)
	if err != nil {
		if errors.Is(err, domain.ErrTitleRequired) {
			respondWithError(w, http.StatusBadRequest, "Title is required")
			return
		}
		log.Printf("Error calling CreateTodo service: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusCreated, todo)
}

func (s *Server) getTodoByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoIDParam(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Todo not found")
		return
	}

	todo, err := s.todoService.GetTodo(r.Context(), ownerFromContext(r.Context()), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Todo not found")
			return
		}
		log.Printf("Error calling GetTodo service: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoIDParam(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Todo not found")
		return
	}

	var req service.UpdateTodoRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	todo, err := s.todoService.UpdateTodo(r.Context(), ownerFromContext(r.Context()), id, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Todo not found")
			return
		}
		log.Printf("Error calling UpdateTodo service: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoIDParam(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Todo not found")
		return
	}

	if err := s.todoService.DeleteTodo(r.Context(), ownerFromContext(r.Context()), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Todo not found")
			return
		}
		log.Printf("Error calling DeleteTodo service: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
