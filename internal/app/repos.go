package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/solutions-catalog/internal/data/repos"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

type Repos struct {
	Solutions repos.SolutionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Solutions: repos.NewSolutionRepo(db, log),
	}
}
