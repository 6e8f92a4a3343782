package domain

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// RUCTopic returns the log topic of an indexed RUC string:
// 0x-prefixed keccak256 of its UTF-8 bytes.
func RUCTopic(ruc string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(ruc))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// TopicIndex resolves RUC topics back to RUCs.
type TopicIndex map[string]string

// NewTopicIndex hashes every known RUC.
func NewTopicIndex(rucs []string) TopicIndex {
	idx := make(TopicIndex, len(rucs))
	for _, ruc := range rucs {
		idx[RUCTopic(ruc)] = ruc
	}
	return idx
}

// Resolve returns the RUC behind topic, if any.
func (idx TopicIndex) Resolve(topic string) (string, bool) {
	ruc, ok := idx[strings.ToLower(topic)]
	return ruc, ok
}
