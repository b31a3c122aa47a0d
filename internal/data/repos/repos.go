package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/solutions-catalog/internal/data/repos/catalog"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

type SolutionRepo = catalog.SolutionRepo

func NewSolutionRepo(db *gorm.DB, baseLog *logger.Logger) SolutionRepo {
	return catalog.NewSolutionRepo(db, baseLog)
}
