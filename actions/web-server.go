package actions

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/relloyd/stagehand/config"
	c "github.com/relloyd/stagehand/constants"
	"github.com/relloyd/stagehand/helper"
	"github.com/relloyd/stagehand/logger"
	"github.com/relloyd/stagehand/stats"
)

type WebServerConfig struct {
	LogLevel           string `errorTxt:"log level" mandatory:"yes"`
	Scheme             string `errorTxt:"scheme" mandatory:"no"`
	Addr               net.IP `errorTxt:"address" mandatory:"no"`
	Port               int    `errorTxt:"port" mandatory:"yes"`
	DefaultEnvironment string `errorTxt:"default environment" mandatory:"yes"`
	Intake             bool
	DryRun             bool
	StackDumpOnPanic   bool
}

// routes are the handlers served by the web server. A nil Intake leaves /intake unregistered.
type routes struct {
	Transfer   TransferRunner
	Intake     EventProcessor
	DefaultEnv string
}

func RunWebServer(web *WebServerConfig) error {
	// Setup logging.
	if web == nil {
		return errors.New("nil pointer to web server config supplied")
	}
	log := logger.NewLogger(c.AppName, web.LogLevel, web.StackDumpOnPanic)
	// Check if we have valid input params.
	err := helper.ValidateStructIsPopulated(web)
	if err != nil {
		return err
	}
	rt := routes{
		Transfer:   NewTransferrer(log, NewWarehouses, config.Environments, web.DryRun),
		DefaultEnv: web.DefaultEnvironment,
	}
	if web.Intake { // if this server should also process upload events...
		v, err := NewIntakeValidator(log)
		if err != nil {
			return err
		}
		rt.Intake = v
	}
	stats.RegisterMetrics()
	// Start the web server.
	srv, chanStopServer := runServer(log, web, rt)
	// Block & wait for completion.
	return waitForServer(log, srv, chanStopServer)
}

func newRouter(log logger.Logger, rt routes, chanStopServer chan string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/stop", GetHandlerStopServer(log, chanStopServer))
	r.Path("/").Methods(http.MethodGet).HandlerFunc(GetHandlerHealth(log))
	r.Path("/health").Methods(http.MethodGet).HandlerFunc(GetHandlerHealth(log))
	r.Path("/metrics").Methods(http.MethodGet).Handler(promhttp.Handler())
	r.Path("/transfer").Methods(http.MethodPost).HandlerFunc(GetHandlerTransfer(log, rt.Transfer, rt.DefaultEnv))
	r.Path("/transfer/{environment}").Methods(http.MethodPost).HandlerFunc(GetHandlerTransfer(log, rt.Transfer, rt.DefaultEnv))
	if rt.Intake != nil {
		r.Path("/intake").Methods(http.MethodPost).HandlerFunc(GetHandlerIntake(log, rt.Intake))
	}
	return r
}

// runServer starts a web server and returns:
// 1) the server; and
// 2) a channel that can be used to stop the web server
func runServer(log logger.Logger, web *WebServerConfig, rt routes) (*http.Server, chan string) {
	chanStopServer := make(chan string, 1)
	// Configure HTTP server.
	// Replication runs synchronously inside the request so writes are not time limited.
	srv := &http.Server{
		Addr:        fmt.Sprintf("%v:%v", web.Addr, web.Port),
		ReadTimeout: time.Second * 15,
		IdleTimeout: time.Second * 60,
		Handler:     newRouter(log, rt, chanStopServer),
	}
	// Run HTTP server non-blocking.
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			if err == http.ErrServerClosed {
				log.Info(err)
			} else {
				log.Panic(err)
			}
		}
	}()
	log.Info(fmt.Sprintf("Listening on %v://%v:%v", strings.ToLower(web.Scheme), web.Addr, web.Port))
	return srv, chanStopServer
}

func waitForServer(log logger.Logger, srv *http.Server, chanStopServer chan string) error {
	// Block & wait for shutdown signals.
	// Accept graceful shutdowns when quit via SIGINT (Ctrl+C)
	// SIGKILL, SIGQUIT or SIGTERM (Ctrl+\) will not be caught.
	chanOS := make(chan os.Signal, 1)
	signal.Notify(chanOS, os.Interrupt) // request signals be sent to chanOS.
	select {
	case <-chanStopServer:
	case <-chanOS:
	}
	log.Info("Shutting down web server...")
	wait := time.Second * 15
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	return srv.Shutdown(ctx) // waits for in-flight requests until the deadline.
}
