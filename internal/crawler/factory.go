package crawler

import (
	"fmt"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/pkg/db"
	"github.com/repoharvest/ci-crawler/pkg/log"
)

func FactoryCrawler(version string, logger log.Logger, config *cfg.Config, mysql *db.Mysql) (Crawler, error) {
	switch version {
	case "seq":
		return NewSeqCrawler(logger, config, mysql)
	case "fanout":
		return NewFanoutCrawler(logger, config, mysql)
	default:
		return nil, fmt.Errorf("[ERROR] Unsupported crawler version: %s", version)
	}
}
