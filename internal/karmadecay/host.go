package karmadecay

import (
	"net/url"
	"strings"
)

// platform is the organisation label of the service whose posts KarmaDecay indexes.
const platform = "reddit"

// IsSameService reports whether rawURL points at reddit itself, judged by the
// second-to-last label of its hostname. It is a heuristic and does not
// consult the public suffix list.
func IsSameService(rawURL string) bool {
	if lower := strings.ToLower(rawURL); !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	labels := strings.Split(strings.ToLower(u.Hostname()), ".")
	i := len(labels) - 2
	if i < 0 {
		i = 0
	}
	return labels[i] == platform
}
