package services

import (
	"fmt"
	"math/rand"
)

const (
	chromeUserAgentFormat  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.4692.99 Safari/537.36"
	firefoxUserAgentFormat = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:95.0) Gecko/20100101 Firefox/%d.0"
	userAgentMinVersion    = 120
	userAgentMaxVersion    = 126
)

// randomUserAgent rotates the User-Agent per request so listing pages
// are not all fetched under one identity.
func randomUserAgent() string {
	version := userAgentMinVersion + rand.Intn(userAgentMaxVersion-userAgentMinVersion+1)
	if rand.Intn(2) == 0 {
		return fmt.Sprintf(chromeUserAgentFormat, version)
	}
	return fmt.Sprintf(firefoxUserAgentFormat, version)
}
