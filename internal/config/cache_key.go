package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TimePerQuestionKey returns the cache key for an exam's seconds-per-question
func (r *CacheKeyStruct) TimePerQuestionKey(prefix string) string {
	return fmt.Sprintf("tpq:%s", prefix)
}

// QuestionCountKey returns the cache key for an exam's question count
func (r *CacheKeyStruct) QuestionCountKey(prefix string) string {
	return fmt.Sprintf("noq:%s", prefix)
}

var CacheKey = NewCacheKeyStruct()
