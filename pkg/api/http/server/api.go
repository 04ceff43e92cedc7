package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/seqward/stoker/pkg/api"
	"github.com/seqward/stoker/pkg/api/http/common"
	"github.com/seqward/stoker/pkg/structs"
)

const (
	wait = 30 * time.Second

	// writeWait bounds a single websocket write; an observer that cannot
	// take a frame within it is hung up on.
	writeWait = 10 * time.Second
)

type Server struct {
	addr       string
	static     string
	debug      bool
	svc        api.API
	exit       chan os.Signal
	httpserver *http.Server
	upgrader   websocket.Upgrader
}

func NewServer(addr, static string, debug bool) *Server {
	return &Server{
		static: static,
		addr:   addr,
		debug:  debug,
		exit:   make(chan os.Signal, 1),
	}
}

func (s *Server) ServeForever(svc api.API) error {
	s.svc = svc

	s.httpserver = &http.Server{
		Handler:      s.router(),
		Addr:         s.addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	go func() {
		log.Println("Listening on", s.httpserver.Addr)
		if err := s.httpserver.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Println(err)
		}
	}()

	signal.Notify(s.exit, os.Interrupt)
	<-s.exit

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	return s.httpserver.Shutdown(ctx)
}

func (s *Server) Close() error {
	s.exit <- os.Interrupt
	return nil
}

func (s *Server) router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.Health).Methods(http.MethodGet)
	router.HandleFunc(common.API_STAGED, s.Staged).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc(common.API_STAGED_ID, s.StagedItem).Methods(http.MethodGet, http.MethodDelete)
	router.HandleFunc(common.API_JOBS, s.Jobs).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc(common.API_JOBS_ID, s.JobItem).Methods(http.MethodGet, http.MethodDelete)
	router.HandleFunc(common.API_JOBS_STOP, s.StopJob).Methods(http.MethodPost)
	router.HandleFunc(common.API_JOBS_RERUN, s.RerunJob).Methods(http.MethodPost)
	router.HandleFunc(common.API_JOBS_LOGS, s.StreamLogs).Methods(http.MethodGet)

	if s.static != "" {
		log.Println("Serving static files from", s.static)
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.static)))
	}

	if s.debug {
		log.Println("Debug enabled, adding per-request logging middleware")
		router.Use(loggingMiddleware)
	}
	return router
}

func (s *Server) Staged(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listStaged(w, r)
	case http.MethodPost:
		s.stageParams(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// stageParams accepts the raw body as the opaque parameter bundle; any one
// JSON document is a valid bundle.
func (s *Server) stageParams(w http.ResponseWriter, r *http.Request) {
	if r.Body == nil {
		http.Error(w, "No body", http.StatusBadRequest)
		return
	}
	params, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	staged, err := s.svc.Stage(r.Context(), json.RawMessage(params))
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(staged)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) listStaged(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.ListStaged(r.Context())
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	if s.debug {
		log.Println(r.URL, "returned", len(items), "items")
	}

	err = json.NewEncoder(w).Encode(items)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) StagedItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	switch r.Method {
	case http.MethodGet:
		staged, err := s.svc.Staged(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), mapError(err))
			return
		}
		if err = json.NewEncoder(w).Encode(staged); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	case http.MethodDelete:
		removed, err := s.svc.RemoveStaged(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), mapError(err))
			return
		}
		if err = json.NewEncoder(w).Encode(&common.RemovedResponse{Removed: removed}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) Jobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listJobs(w, r)
	case http.MethodPost:
		s.submitJob(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) submitJob(w http.ResponseWriter, r *http.Request) {
	req := &common.SubmitRequest{}
	err := unmarshalJson(w, r, req)
	if err != nil {
		return
	}

	job, err := s.svc.Submit(r.Context(), req.StagedID, &req.SubmitSpec)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(job)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	opts := &structs.ListOptions{}
	err := unmarshalQuery(w, r, opts)
	if err != nil {
		return
	}

	items, err := s.svc.List(r.Context(), opts)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	if s.debug {
		log.Println(r.URL, "returned", len(items), "items")
	}

	err = json.NewEncoder(w).Encode(items)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) JobItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	switch r.Method {
	case http.MethodGet:
		job, err := s.svc.Job(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), mapError(err))
			return
		}
		if err = json.NewEncoder(w).Encode(job); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	case http.MethodDelete:
		if err := s.svc.Remove(r.Context(), id); err != nil {
			http.Error(w, err.Error(), mapError(err))
			return
		}
		if err := json.NewEncoder(w).Encode(&common.RemovedResponse{Removed: true}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) StopJob(w http.ResponseWriter, r *http.Request) {
	msg, err := s.svc.Stop(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(&common.StopResponse{Message: msg})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) RerunJob(w http.ResponseWriter, r *http.Request) {
	staged, err := s.svc.Rerun(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	err = json.NewEncoder(w).Encode(staged)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// StreamLogs replays a job's full history to the websocket, then relays live
// records as they arrive. After the end-of-stream record the connection is
// closed server side; observers of ended jobs get the history and an
// immediate close.
func (s *Server) StreamLogs(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	// attach before upgrading; a missing job must fail as plain HTTP
	history, sub, err := s.svc.Logs(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		sub.Close()
		log.Println("websocket upgrade failed:", err)
		return
	}
	defer conn.Close()
	defer sub.Close()

	// nothing meaningful ever arrives from the client; reading just tells
	// us when it hangs up
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for _, rec := range history {
		if !s.writeRecord(conn, rec) {
			return
		}
		if rec.IsEnd() {
			sendClose(conn)
			return
		}
	}

	for {
		select {
		case rec, ok := <-sub.Records():
			if !ok {
				sendClose(conn)
				return
			}
			if !s.writeRecord(conn, rec) {
				return
			}
			if rec.IsEnd() {
				sendClose(conn)
				return
			}
		case <-gone:
			return
		}
	}
}

func (s *Server) writeRecord(conn *websocket.Conn, rec *structs.LogRecord) bool {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(rec.Message()); err != nil {
		if s.debug {
			log.Println("dropping log observer:", err)
		}
		return false
	}
	return true
}

func sendClose(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Health(r.Context()); err != nil {
		http.Error(w, err.Error(), mapError(err))
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
