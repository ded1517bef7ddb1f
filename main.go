package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	orchestratorx "deskflow/agent/agents/orchestrator"
	contractx "deskflow/agent/contract"
	"deskflow/agent/handler"
	llmx "deskflow/agent/llm"
	statex "deskflow/agent/state"
	toolx "deskflow/agent/tool"
	catalogx "deskflow/pkg/catalog"
	configx "deskflow/pkg/config"
	httpapix "deskflow/pkg/httpapi"
	_ "deskflow/pkg/logger/autoload"
	openrouterx "deskflow/pkg/openrouter"
	recordsx "deskflow/pkg/records"
)

type AppConfig struct {
	Mode             string        `envconfig:"MODE" default:"serve"`
	DataDir          string        `envconfig:"DATA_DIR" split_words:"true" default:"data"`
	PostgresDSN      string        `envconfig:"POSTGRES_DSN" split_words:"true"`
	SessionStore     string        `envconfig:"SESSION_STORE" split_words:"true" default:"memory"`
	SessionTTL       time.Duration `envconfig:"SESSION_TTL" split_words:"true" default:"1h"`
	KeepLast         int           `envconfig:"KEEP_LAST" split_words:"true" default:"8"`
	MaxHistoryTokens int           `envconfig:"MAX_HISTORY_TOKENS" split_words:"true" default:"4000"`
	CallTimeout      time.Duration `envconfig:"CALL_TIMEOUT" split_words:"true" default:"30s"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("APP")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")

	probeOpenRouter(ctx, *llmCfg)

	catalogRepo, err := catalogx.NewRepository(filepath.Join(appCfg.DataDir, "laptop_catalog.json"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open catalog repository")
	}

	recordStore := newRecordStore(ctx, appCfg)
	sessionStore := newSessionStore(appCfg)

	toolRegistry := toolx.NewRegistry()
	toolx.RegisterRoutingTool(toolRegistry)
	toolx.RegisterSalesTools(toolRegistry, catalogRepo, recordStore)
	toolx.RegisterSupportTools(toolRegistry, recordStore)

	handlers, err := handler.NewRegistry(ctx, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build handler registry")
	}

	engine, err := orchestratorx.New(sessionStore, handlers, toolx.NewDispatcher(toolRegistry), orchestratorx.Config{
		KeepLast:         appCfg.KeepLast,
		MaxHistoryTokens: appCfg.MaxHistoryTokens,
		CallTimeout:      appCfg.CallTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build engine")
	}

	switch strings.ToLower(strings.TrimSpace(appCfg.Mode)) {
	case "cli":
		runCLI(ctx, engine)
	default:
		runServer(ctx, engine, recordStore)
	}
}

func newRecordStore(ctx context.Context, cfg *AppConfig) recordsx.Store {
	if dsn := strings.TrimSpace(cfg.PostgresDSN); dsn != "" {
		store, err := recordsx.NewBunStore(ctx, dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres record store")
		}
		log.Info().Msg("using postgres record store")
		return store
	}
	store, err := recordsx.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open file record store")
	}
	return store
}

func newSessionStore(cfg *AppConfig) statex.Store {
	if strings.EqualFold(strings.TrimSpace(cfg.SessionStore), "upstash") {
		upstashCfg := configx.MustNew[statex.UpstashConfig]("UPSTASH")
		store, err := statex.NewUpstashStore(*upstashCfg, statex.WithUpstashTTL(cfg.SessionTTL))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build upstash session store")
		}
		log.Info().Msg("using upstash session store")
		return store
	}
	return statex.NewMemoryStore(statex.WithSessionTTL(cfg.SessionTTL))
}

// probeOpenRouter verifies the credentials once at startup. A failure is
// logged, not fatal: the gateway may recover before the first turn arrives.
func probeOpenRouter(ctx context.Context, cfg llmx.Config) {
	client := openrouterx.NewClient(cfg.OpenRouterFor(contractx.AgentTypeConversation))
	if client == nil {
		log.Warn().Msg("openrouter client not configured, skipping startup probe")
		return
	}
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := client.Models.List(probeCtx); err != nil {
		log.Warn().Err(err).Msg("openrouter startup probe failed")
		return
	}
	log.Info().Str("model", cfg.Model).Msg("openrouter reachable")
}

func runServer(ctx context.Context, engine *orchestratorx.Engine, store recordsx.Store) {
	apiCfg := configx.MustNew[httpapix.Config]("HTTP")
	srv := httpapix.NewServer(engine, store, *apiCfg)

	log.Info().Str("addr", apiCfg.Addr).Msg("listening")
	if err := http.ListenAndServe(apiCfg.Addr, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("http server stopped")
	}
}

func runCLI(ctx context.Context, engine *orchestratorx.Engine) {
	sessionID := fmt.Sprintf("cli-%d", time.Now().Unix())
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Type a message, or 'exit' to quit.")
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "exit") {
			break
		}

		result, err := engine.HandleTurn(ctx, sessionID, text, nil)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Printf("Assistant (%s): %s\n", result.UsedAgent, result.Reply)
	}
}
