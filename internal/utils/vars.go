package utils

const (
	LoginURL    = "https://ndber.seai.ie/BERResearchTool/Register/Register.aspx"
	DownloadURL = "https://ndber.seai.ie/BERResearchTool/ber/search.aspx"
	ArchiveName = "BERPublicsearch.zip"
	BlockSize   = 1024 // bytes read and written per step of a streamed download
)

// Browser user agents for --user-agent randomize; the portal serves ASP.NET
// pages and expects a browser.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.3 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:139.0) Gecko/20100101 Firefox/139.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:139.0) Gecko/20100101 Firefox/139.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36",
}
