package app

import (
	"os"
	"strings"
	"time"

	"github.com/yungbote/postpilot-backend/internal/clients/openai"
	"github.com/yungbote/postpilot-backend/internal/clients/pinecone"
	"github.com/yungbote/postpilot-backend/internal/logger"
)

type Clients struct {
	OpenaiClient        openai.Client
	PineconeVectorStore pinecone.VectorStore
}

// wireClients treats both external providers as optional. Without OpenAI the
// batch runner cannot draft, but scoring and planning still work; without
// Pinecone posts are written with an empty knowledge brief.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	var openaiClient openai.Client
	if strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "" {
		c, err := openai.NewClient(log)
		if err != nil {
			log.Warn("OpenAI client unavailable, drafting disabled", "error", err)
		} else {
			openaiClient = c
		}
	} else {
		log.Warn("OPENAI_API_KEY not set, drafting disabled")
	}

	var vectorStore pinecone.VectorStore
	if apiKey := strings.TrimSpace(os.Getenv("PINECONE_API_KEY")); apiKey != "" {
		pc, err := pinecone.New(log, pinecone.Config{
			APIKey:  apiKey,
			Timeout: 30 * time.Second,
		})
		if err != nil {
			log.Warn("Pinecone client unavailable, knowledge briefs disabled", "error", err)
		} else {
			vs, err := pinecone.NewVectorStore(log, pc)
			if err != nil {
				log.Warn("Pinecone vector store unavailable, knowledge briefs disabled", "error", err)
			} else {
				vectorStore = vs
			}
		}
	}

	return Clients{
		OpenaiClient:        openaiClient,
		PineconeVectorStore: vectorStore,
	}
}
