package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/postpilot-backend/internal/logger"
	"github.com/yungbote/postpilot-backend/internal/repos"
)

type Repos struct {
	ContentIdea     repos.ContentIdeaRepo
	PipelinePost    repos.PipelinePostRepo
	PostingSlot     repos.PostingSlotRepo
	ContentTemplate repos.ContentTemplateRepo
	BrandProfile    repos.BrandProfileRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		ContentIdea:     repos.NewContentIdeaRepo(db, log),
		PipelinePost:    repos.NewPipelinePostRepo(db, log),
		PostingSlot:     repos.NewPostingSlotRepo(db, log),
		ContentTemplate: repos.NewContentTemplateRepo(db, log),
		BrandProfile:    repos.NewBrandProfileRepo(db, log),
	}
}
