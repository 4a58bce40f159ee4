package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/arlolabs/arlo/agent"
	toolx "github.com/arlolabs/arlo/agent/tool"
	"github.com/arlolabs/arlo/export"
	configx "github.com/arlolabs/arlo/pkg/config"
	groqx "github.com/arlolabs/arlo/pkg/groq"
	logx "github.com/arlolabs/arlo/pkg/logger"
	transcriptx "github.com/arlolabs/arlo/pkg/transcript"
	"github.com/arlolabs/arlo/server"
	"github.com/arlolabs/arlo/workout"
)

type AppConfig struct {
	DBPath        string `envconfig:"DB_PATH" split_words:"true" default:"fitness.db"`
	ExportDir     string `envconfig:"EXPORT_DIR" split_words:"true" default:""`
	TranscriptDir string `envconfig:"TRANSCRIPT_DIR" split_words:"true" default:""`
}

func main() {
	repl := flag.Bool("repl", false, "chat on the terminal instead of serving HTTP")

	logx.Init(*configx.MustNew[logx.Config]("LOG"))
	appCfg := configx.MustNew[AppConfig]("ARLO")

	groqCfg := configx.MustNew[groqx.Config]("GROQ")
	client := groqx.NewClient(*groqCfg)
	if client == nil {
		log.Fatal().Msg("GROQ_API_KEY is required")
	}

	store, err := workout.Open(appCfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", appCfg.DBPath).Msg("failed to open workout store")
	}
	defer store.Close()

	exporter, err := export.NewManager(appCfg.ExportDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare export directory")
	}

	catalog, err := toolx.NewCatalog(store, exporter)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build tool catalog")
	}

	var opts []agent.Option
	if appCfg.TranscriptDir != "" {
		transcripts, err := transcriptx.NewStore(appCfg.TranscriptDir)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to prepare transcript directory")
		}
		opts = append(opts, agent.WithTranscripts(transcripts))
	}

	assistant, err := agent.New(client, catalog, *groqCfg, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build assistant")
	}

	if *repl {
		runREPL(assistant)
		return
	}

	srv, err := server.New(assistant, exporter, *configx.MustNew[server.Config]("HTTP"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}

	go func() {
		if err := srv.Listen(); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := srv.Shutdown(); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

// runREPL chats on the controlling terminal. One session per process run.
func runREPL(assistant *agent.Assistant) {
	t := term.NewTerminal(os.Stdin, "> ")
	fmt.Fprintln(t, "Arlo is ready. Tell it about your workout (Ctrl+D to quit).")

	for {
		line, err := readLine(t)
		if err != nil {
			if err != io.EOF {
				fmt.Fprintln(t, "Fatal:", err)
			}
			return
		}
		if line == "" {
			continue
		}

		reply, err := assistant.HandleMessage(context.Background(), "terminal", line)
		if err != nil {
			fmt.Fprintln(t, "Error:", err)
			continue
		}

		fmt.Fprintln(t, reply.Text)
		for _, file := range reply.Files {
			fmt.Fprintln(t, "Saved:", file)
		}
	}
}

func readLine(t *term.Terminal) (string, error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return "", err
	}

	if width, height, err := term.GetSize(fd); err == nil {
		t.SetSize(width, height)
	}

	line, readErr := t.ReadLine()
	if restoreErr := term.Restore(fd, oldState); restoreErr != nil && readErr == nil {
		readErr = restoreErr
	}
	return line, readErr
}
