package crawler

type Crawler interface {
	Crawl() bool
}
