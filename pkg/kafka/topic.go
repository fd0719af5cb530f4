package kafka

import "fmt"

// TopicPrefix is the prefix shared by every topic this project publishes to.
const TopicPrefix = "recylefood"

// Topic returns "<prefix>.<domain>.<action>".
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}
