package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"hexarena/communication"
	"hexarena/game"
)

// Session is the part of a game session the HTTP server drives.
type Session interface {
	DoBoardAction(ctx context.Context, m communication.DoBoardAction) error
	DoGameAction(ctx context.Context, m communication.DoGameAction) error
	BoardHistory(ctx context.Context, board int) (communication.BoardHistory, error)
	Snapshot(ctx context.Context, side game.Side) (communication.Initialize, error)
}

// ServerCommunicator serves one session over plain HTTP. Clients post
// intents and poll the game state; report streams need the stdio
// transport.
type ServerCommunicator struct {
	session Session
	mux     *http.ServeMux
}

// NewServerCommunicator initializes and returns a new ServerCommunicator.
func NewServerCommunicator(session Session) *ServerCommunicator {
	sc := &ServerCommunicator{session: session, mux: http.NewServeMux()}
	sc.mux.HandleFunc("POST /sendIntent", sc.handleSendIntent)
	sc.mux.HandleFunc("GET /getGameState", sc.handleGetGameState)
	return sc
}

func (sc *ServerCommunicator) Handler() http.Handler {
	return sc.mux
}

// Start serves on addr until the listener fails.
func (sc *ServerCommunicator) Start(addr string) error {
	log.Info().Msgf("serving HTTP on %s", addr)
	return http.ListenAndServe(addr, sc.mux)
}

func (sc *ServerCommunicator) handleSendIntent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeResult(w, http.StatusBadRequest, communication.ResultOf("", err))
		return
	}
	intent, err := communication.DecodeIntent(body)
	if err != nil {
		writeResult(w, http.StatusBadRequest, communication.ResultOf("", err))
		return
	}

	ctx := r.Context()
	switch m := intent.(type) {
	case communication.DoBoardAction:
		writeResult(w, http.StatusOK, communication.ResultOf(m.ActionID, sc.session.DoBoardAction(ctx, m)))
	case communication.DoGameAction:
		writeResult(w, http.StatusOK, communication.ResultOf(m.ActionID, sc.session.DoGameAction(ctx, m)))
	case communication.RequestBoardHistory:
		h, err := sc.session.BoardHistory(ctx, m.Board)
		if err != nil {
			writeResult(w, http.StatusOK, communication.ResultOf("", err))
			return
		}
		writeReport(w, http.StatusOK, h)
	default:
		err := errors.New("subscriptions are not served over HTTP")
		writeResult(w, http.StatusBadRequest, communication.ResultOf("", err))
	}
}

func (sc *ServerCommunicator) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	side, err := strconv.Atoi(r.URL.Query().Get("side"))
	if err != nil {
		writeResult(w, http.StatusBadRequest, communication.ResultOf("", err))
		return
	}
	state, err := sc.session.Snapshot(r.Context(), game.Side(side))
	if err != nil {
		writeResult(w, http.StatusOK, communication.ResultOf("", err))
		return
	}
	writeReport(w, http.StatusOK, state)
}

func writeResult(w http.ResponseWriter, status int, res communication.Result) {
	writeReport(w, status, res)
}

func writeReport(w http.ResponseWriter, status int, r communication.Report) {
	data, err := communication.EncodeReport(r)
	if err != nil {
		log.Error().Err(err).Msgf("encode %s", r.ReportType())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
