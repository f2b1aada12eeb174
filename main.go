package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	orchestratorx "github.com/chatcommerce/shopagent/agent/agents/orchestrator"
	orderagent "github.com/chatcommerce/shopagent/agent/agents/order"
	productagent "github.com/chatcommerce/shopagent/agent/agents/product"
	contractx "github.com/chatcommerce/shopagent/agent/contract"
	executorx "github.com/chatcommerce/shopagent/agent/executor"
	llmx "github.com/chatcommerce/shopagent/agent/llm"
	promptx "github.com/chatcommerce/shopagent/agent/prompt"
	toolx "github.com/chatcommerce/shopagent/agent/tool"
	configx "github.com/chatcommerce/shopagent/pkg/config"
	logx "github.com/chatcommerce/shopagent/pkg/logger"
	_ "github.com/chatcommerce/shopagent/pkg/logger/autoload"
	openrouterx "github.com/chatcommerce/shopagent/pkg/openrouter"
	storex "github.com/chatcommerce/shopagent/store"
	"github.com/chatcommerce/shopagent/store/inmem"
	vectorx "github.com/chatcommerce/shopagent/vector"
)

// maxTranscriptTurns caps the REPL's transcript; older turns fall off the
// front. Agents only ever read the last ten turns anyway.
const maxTranscriptTurns = 50

func main() {
	ctx := context.Background()

	llmCfg := configx.MustNew[llmx.Config]("OPENAI")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid model config")
	}

	st, usingPostgres := buildStore(ctx)

	vecCfg := configx.MustNew[vectorx.Config]("VECTOR")
	sdkClient := openrouterx.NewClient(openrouterx.Config{
		BaseURL: llmCfg.BaseURL,
		APIKey:  llmCfg.APIKey,
	})
	if sdkClient == nil {
		log.Fatal().Msg("embedding client requires an api key")
	}
	index, err := vectorx.NewIndex(*vecCfg, vectorx.OpenAIEmbedding(sdkClient, vectorx.DefaultEmbeddingModel))
	if err != nil {
		log.Fatal().Err(err).Msg("open vector index")
	}

	if !usingPostgres {
		if err := seedDemoCatalog(ctx, st, index); err != nil {
			log.Fatal().Err(err).Msg("seed demo catalog")
		}
	}

	productTools, err := toolx.NewProductTools(index, st)
	if err != nil {
		log.Fatal().Err(err).Msg("wire product tools")
	}
	orderTools, err := toolx.NewOrderTools(index, st)
	if err != nil {
		log.Fatal().Err(err).Msg("wire order tools")
	}

	prompts := promptx.LoadPromptSet()

	productCfg := llmCfg.OpenRouterFor(contractx.AgentProduct)
	productModel, err := productCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("build product model")
	}
	productExec, err := executorx.New(contractx.AgentProduct, productModel, productTools,
		executorx.WithModelName(productCfg.Model),
		executorx.WithLogger(logx.Component(contractx.AgentProduct)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("build product executor")
	}

	orderCfg := llmCfg.OpenRouterFor(contractx.AgentOrder)
	orderModel, err := orderCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("build order model")
	}
	orderExec, err := executorx.New(contractx.AgentOrder, orderModel, orderTools,
		executorx.WithModelName(orderCfg.Model),
		executorx.WithHistoryWindow(orderagent.HistoryWindow),
		executorx.WithLogger(logx.Component(contractx.AgentOrder)),
		executorx.WithErrorReply(func(err error) string {
			return fmt.Sprintf("I apologize, but I encountered an error while processing your order request: %v", err)
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("build order executor")
	}

	orch, err := orchestratorx.New(
		productagent.New(productExec, prompts.Product),
		orderagent.New(orderExec, prompts.Order),
		orchestratorx.WithLogger(logx.Component(contractx.AgentOrchestrator)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	runREPL(ctx, orch)
}

func buildStore(ctx context.Context) (storex.Store, bool) {
	pgCfg := configx.MustNew[storex.PostgresConfig]("POSTGRES")
	if strings.TrimSpace(pgCfg.DSN) == "" {
		log.Info().Msg("no postgres dsn configured, using in-memory store")
		return inmem.New(), false
	}

	ps, err := storex.NewPostgresStore(*pgCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	if err := ps.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("init postgres schema")
	}
	return ps, true
}

// seedDemoCatalog loads a small catalog for DSN-less demo runs.
func seedDemoCatalog(ctx context.Context, st storex.Store, index *vectorx.Index) error {
	products := []*storex.Product{
		{
			ProductID:   "PROD-001",
			Name:        "UltraBook Pro 15",
			Description: "Thin and light 15 inch laptop with 16GB RAM and a 512GB SSD, built for work on the move.",
			Price:       1299.99,
			Category:    "laptops",
			StockStatus: storex.StockInStock,
			Specifications: map[string]any{
				"ram":     "16GB",
				"storage": "512GB SSD",
				"screen":  "15.6 inch",
			},
		},
		{
			ProductID:   "PROD-002",
			Name:        "SoundMax Headphones",
			Description: "Over-ear wireless headphones with active noise cancelling and 30 hour battery life.",
			Price:       199.99,
			Category:    "audio",
			StockStatus: storex.StockInStock,
		},
		{
			ProductID:   "PROD-003",
			Name:        "GameStation X",
			Description: "Gaming desktop with a dedicated GPU, liquid cooling and RGB everything.",
			Price:       1899.00,
			Category:    "desktops",
			StockStatus: storex.StockOutOfStock,
		},
		{
			ProductID:   "PROD-004",
			Name:        "ClickPro Mouse",
			Description: "Ergonomic wireless mouse with adjustable DPI and silent buttons.",
			Price:       49.99,
			Category:    "accessories",
			StockStatus: storex.StockInStock,
		},
	}

	for _, p := range products {
		p.CreatedAt = time.Now().UTC()
		if err := st.AddProduct(ctx, p); err != nil {
			return err
		}
	}
	return index.AddProducts(ctx, products)
}

func runREPL(ctx context.Context, orch *orchestratorx.Orchestrator) {
	fmt.Println("Shop assistant ready. Type 'quit' to exit, 'reset' to start over, 'summary' for an overview.")

	var transcript []contractx.DialogueTurn
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			fmt.Println("Bye!")
			return
		case "reset":
			orch.Reset()
			transcript = nil
			fmt.Println("Conversation reset.")
			continue
		case "summary":
			printSummary(orch, transcript)
			continue
		}

		res := orch.Process(ctx, line, transcript)
		fmt.Println(res.Reply)

		transcript = appendTurn(transcript, contractx.DialogueTurn{
			Role:      contractx.RoleUser,
			Content:   line,
			Timestamp: time.Now(),
		})
		transcript = appendTurn(transcript, contractx.DialogueTurn{
			Role:      contractx.RoleAssistant,
			Content:   res.Reply,
			Timestamp: time.Now(),
			AgentID:   res.AgentID,
		})
	}
}

func appendTurn(transcript []contractx.DialogueTurn, turn contractx.DialogueTurn) []contractx.DialogueTurn {
	transcript = append(transcript, turn)
	if len(transcript) > maxTranscriptTurns {
		transcript = transcript[len(transcript)-maxTranscriptTurns:]
	}
	return transcript
}

func printSummary(orch *orchestratorx.Orchestrator, transcript []contractx.DialogueTurn) {
	summary := orch.Summary(transcript)
	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		fmt.Println("summary unavailable:", err)
		return
	}
	fmt.Println(string(encoded))
}
