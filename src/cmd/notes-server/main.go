// Command notes-server serves the note converter over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"notes-converter/src/pkg/api"
	"notes-converter/src/pkg/conditioner"
	"notes-converter/src/pkg/config"
	echomw "notes-converter/src/pkg/echo-middleware"
	"notes-converter/src/pkg/normalize"
	"notes-converter/src/pkg/ocr"
	"notes-converter/src/pkg/ocr/tesseract"
	"notes-converter/src/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

/*
main initializes configuration, builds the echo server, and serves until
SIGINT or SIGTERM. In-flight conversions get shutdownTimeout to finish.
*/
func main() {
	// Common flags.
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")
	flag.Parse()

	config.InitializeConfig(*configPath)
	echomw.InitializeConfig(config.Section[echomw.Config]("echo-middleware"))
	conditioner.InitializeConfig(config.Section[conditioner.Config]("conditioner"))
	normalize.InitializeConfig(config.Section[normalize.Config]("normalize"))
	ocr.InitializeConfig(config.Section[ocr.Config]("ocr"))

	xerr.QuitIfError(echomw.Cfg.Validate(), "Invalid echo-middleware config")

	bearerToken := ""
	if echomw.Cfg.RequireAuth {
		config.CheckIfEnvVarsPresent(echomw.EnvBearerToken)
		bearerToken = os.Getenv(echomw.EnvBearerToken)
	}

	engineConfig, err := ocr.Cfg.EngineConfig()
	if err != nil {
		xerr.NewError(err, "parse ocr options", ocr.Cfg.Options).QuitIf(xerr.ErrorTypeError)
	}
	normalizeOptions, e := normalize.Cfg.Options()
	e.QuitIf(xerr.ErrorTypeError)

	handler := api.NewHandler(tesseract.NewEngine(), pipeline.Options{
		Conditioner: conditioner.Cfg,
		Engine:      engineConfig,
		Normalize:   normalizeOptions,
	})
	server := api.NewServer(handler, echomw.Cfg, bearerToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		tl.Log(tl.Notice, palette.BlueBold, "%s on '%s'", "Serving notes API", echomw.Cfg.ListenAddress())
		serveErr := server.Start(echomw.Cfg.ListenAddress())
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			xerr.NewError(serveErr, "start http server", echomw.Cfg.ListenAddress()).QuitIf(xerr.ErrorTypeError)
		}
	}()

	<-ctx.Done()
	tl.Log(tl.Notice, palette.Purple, "%s, %s", "Shutdown signal received", "draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	xerr.QuitIfError(server.Shutdown(shutdownCtx), "Unable to shut down http server")

	tl.Log(tl.Notice1, palette.GreenBold, "%s", "Server stopped")
}
