package rpc

import (
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"runtime/debug"

	"github.com/MixinNetwork/aspect/common"
	"github.com/MixinNetwork/aspect/config"
	"github.com/MixinNetwork/aspect/kernel"
	"github.com/MixinNetwork/aspect/logger"
	"github.com/dimfeld/httptreemux"
	"github.com/gorilla/handlers"
	"github.com/unrolled/render"
)

type R struct {
	Calculator *kernel.Calculator
}

type Call struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

func NewRouter(calc *kernel.Calculator, runtime bool) *httptreemux.TreeMux {
	router, impl := httptreemux.New(), &R{Calculator: calc}
	router.POST("/", impl.handle)
	if runtime {
		router.GET("/debug/pprof/*path", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
			http.DefaultServeMux.ServeHTTP(w, r)
		})
	}
	registerHanders(router)
	return router
}

func registerHanders(router *httptreemux.TreeMux) {
	router.MethodNotAllowedHandler = func(w http.ResponseWriter, r *http.Request, _ map[string]httptreemux.HandlerFunc) {
		render.New().JSON(w, http.StatusNotFound, map[string]interface{}{})
	}
	router.NotFoundHandler = func(w http.ResponseWriter, r *http.Request) {
		render.New().JSON(w, http.StatusNotFound, map[string]interface{}{})
	}
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, rcv interface{}) {
		if de, ok := rcv.(*common.DomainError); ok {
			render.New().JSON(w, http.StatusOK, map[string]interface{}{"error": de.Error()})
			return
		}
		logger.Errorf("PANIC %v\n%s\n", rcv, debug.Stack())
		render.New().JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": fmt.Sprint(rcv)})
	}
}

func (impl *R) handle(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var call Call
	d := json.NewDecoder(r.Body)
	d.UseNumber()
	if err := d.Decode(&call); err != nil {
		render.New().JSON(w, http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}
	var data interface{}
	var err error
	switch call.Method {
	case "getinfo":
		data, err = impl.Calculator.Info()
	case "describe":
		data, err = describe(impl.Calculator, call.Params)
	case "describeimage":
		data, err = describeImage(r.Context(), impl.Calculator, call.Params)
	case "limitdenominator":
		data, err = limitDenominator(impl.Calculator, call.Params)
	case "approximate":
		data, err = approximate(impl.Calculator, call.Params)
	case "closest":
		data, err = closest(impl.Calculator, call.Params)
	case "listratios":
		data, err = listRatios(call.Params)
	case "getquery":
		data, err = getQuery(impl.Calculator, call.Params)
	case "listqueries":
		data, err = listQueries(impl.Calculator, call.Params)
	default:
		err = fmt.Errorf("invalid method %s", call.Method)
	}
	if err != nil {
		render.New().JSON(w, http.StatusOK, map[string]interface{}{"error": err.Error()})
	} else {
		render.New().JSON(w, http.StatusOK, map[string]interface{}{"data": data})
	}
}

func handleCORS(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Access-Control-Allow-Headers", "Content-Type,Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "OPTIONS,GET,POST")
		w.Header().Set("Access-Control-Max-Age", "600")
		if r.Method == "OPTIONS" {
			render.New().JSON(w, http.StatusOK, map[string]interface{}{})
		} else {
			handler.ServeHTTP(w, r)
		}
	})
}

func NewHandler(custom *config.Custom, calc *kernel.Calculator) http.Handler {
	router := NewRouter(calc, custom.RPC.Runtime)
	handler := handleCORS(router)
	handler = handlers.ProxyHeaders(handler)
	return handlers.CombinedLoggingHandler(logger.Writer(logger.VERBOSE), handler)
}

func NewServer(custom *config.Custom, calc *kernel.Calculator) *http.Server {
	handler := NewHandler(custom, calc)
	return &http.Server{Addr: fmt.Sprintf(":%d", custom.RPC.Port), Handler: handler}
}
