package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/relloyd/stagehand/config"
	c "github.com/relloyd/stagehand/constants"
	"github.com/relloyd/stagehand/intake"
	"github.com/relloyd/stagehand/logger"
	"github.com/relloyd/stagehand/replication"
	"github.com/tidwall/gjson"
)

type WebServerResponse uint32

const (
	Okay WebServerResponse = iota + 1
	Error
	Success
	Healthy
)

func (w WebServerResponse) MarshalJSON() ([]byte, error) {
	var retval string
	switch w {
	case Okay:
		retval = "ok"
	case Error:
		retval = "error"
	case Success:
		retval = "success"
	case Healthy:
		retval = "healthy"
	default:
		err := fmt.Errorf("unhandled WebServerResponse value in MarshalJSON() conversion")
		return nil, err
	}
	return json.Marshal(retval)
}

type ResponseSimple struct {
	ServerStatus WebServerResponse `json:"status"`
}

type ResponseHealth struct {
	Status  WebServerResponse `json:"status"`
	Service string            `json:"service"`
}

type ResponseError struct {
	Status WebServerResponse `json:"status"`
	Error  string            `json:"error"`
}

type ResponseTransfer struct {
	Status  WebServerResponse   `json:"status"`
	Message string              `json:"message"`
	Report  *replication.Report `json:"report,omitempty"`
}

type ResponseIntake struct {
	Status   WebServerResponse `json:"status"`
	Message  string            `json:"message"`
	Decision *intake.Decision  `json:"decision,omitempty"`
}

// EventProcessor decides the outcome of one intake event.
type EventProcessor interface {
	Process(ctx context.Context, ev intake.Event) *intake.Decision
}

// TransferRunner runs replication for an environment tag.
type TransferRunner interface {
	Transfer(ctx context.Context, envName string) (*replication.Report, error)
}

func GetHandlerHealth(log logger.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseHealth{Status: Healthy, Service: c.AppName})
	}
}

func GetHandlerStopServer(log logger.Logger, chanStop chan string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		chanStop <- "stop"
		log.Info("Stop signal sent")
		respond(log, w, ResponseSimple{ServerStatus: Okay})
	}
}

// GetHandlerTransfer runs replication for the environment found in the path, else the "environment"
// field of a JSON body, else defaultEnv.
func GetHandlerTransfer(log logger.Logger, t TransferRunner, defaultEnv string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		env, ok := mux.Vars(r)["environment"]
		if !ok { // if the environment is not in the path...
			env = defaultEnv
			b, _ := ioutil.ReadAll(r.Body)
			if v := gjson.GetBytes(b, "environment"); gjson.ValidBytes(b) && v.Exists() {
				env = v.String()
			}
		}
		if !config.IsValidEnvironment(env) {
			logAndRespond(log, fmt.Errorf("invalid environment %q", env), w, http.StatusBadRequest,
				ResponseError{Status: Error, Error: fmt.Sprintf("Invalid environment. Must be '%v'", strings.Join(config.ValidEnvironments(), "' or '"))})
			return
		}
		log.Info("Starting dataset transfer via web service: ", env)
		report, err := t.Transfer(r.Context(), env)
		if err != nil {
			logAndRespond(log, err, w, http.StatusInternalServerError, ResponseTransfer{Status: Error, Message: err.Error()})
			return
		}
		if !report.Success {
			log.Error("Dataset transfer failed!")
			w.WriteHeader(http.StatusInternalServerError)
			respond(log, w, ResponseTransfer{Status: Error, Message: "Dataset transfer failed!", Report: report})
			return
		}
		log.Info("Dataset transfer completed successfully!")
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseTransfer{Status: Success, Message: "Dataset transfer completed successfully!", Report: report})
	}
}

// GetHandlerIntake processes an upload event supplied as a plain, CloudEvent or S3 notification JSON body.
// Dead-lettered files are a normal outcome so they are reported with 200.
func GetHandlerIntake(log logger.Logger, p EventProcessor) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		b, _ := ioutil.ReadAll(r.Body)
		ev, err := intake.ParseEvent(b)
		if err != nil {
			logAndRespond(log, err, w, http.StatusBadRequest, ResponseError{Status: Error, Error: err.Error()})
			return
		}
		d := p.Process(r.Context(), ev)
		w.WriteHeader(http.StatusOK)
		if d == nil {
			respond(log, w, ResponseIntake{Status: Okay, Message: "event ignored"})
			return
		}
		respond(log, w, ResponseIntake{Status: Okay, Message: d.Outcome.String(), Decision: d})
	}
}

func logAndRespond(log logger.Logger, err error, w http.ResponseWriter, status int, i interface{}) {
	log.Error(err)
	w.WriteHeader(status)
	respond(log, w, i)
}

// respond will marshal i to a string and write it to w.
func respond(log logger.Logger, w http.ResponseWriter, i interface{}) {
	j, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		log.Panic(err)
	}
	_, err = fmt.Fprint(w, string(j))
	if err != nil {
		log.Error(err)
	}
}
