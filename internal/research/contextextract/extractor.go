// Package contextextract derives the compact AnalysisContext record from a
// finished answer: the services it mentions, its section topics, and a
// bounded plain-text summary. Extraction is pure and total; when nothing
// matches it falls back to empty collections.
package contextextract

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"research-assistant/internal/models"
)

// MaxSummaryLength bounds the stored summary.
const MaxSummaryLength = 500

// topicLimit caps extracted topics to the first entries in document order.
const topicLimit = 10

var servicePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:AWS|Amazon)\s+([A-Z][a-zA-Z]+)\b`),
	regexp.MustCompile(`(?i)\b(Lambda|ECS|EC2|S3|RDS|DynamoDB|API Gateway|CloudFront|VPC|IAM|CloudFormation|Step Functions|EventBridge|SQS|SNS|Kinesis|Glue|Athena|Redshift|ElastiCache|Elasticsearch|OpenSearch|Route53|CloudWatch|X-Ray|CodePipeline|CodeBuild|CodeDeploy|EKS|Fargate|Batch|Elastic Beanstalk|Lightsail|AppSync|Amplify|Cognito|Secrets Manager|Parameter Store|Systems Manager|Config|CloudTrail|GuardDuty|WAF|Shield|KMS|Certificate Manager|Direct Connect|VPN|Transit Gateway|NAT Gateway|Elastic IP|Load Balancer|Auto Scaling|Terraform|CDK)\b`),
}

var headingPattern = regexp.MustCompile(`(?m)^#{1,3}\s+(.+)$`)

// genericHeadings are section titles that carry no topical signal.
var genericHeadings = map[string]bool{
	"overview":              true,
	"summary":               true,
	"documentation sources": true,
	"follow-up questions":   true,
	"references":            true,
	"sources":               true,
}

var (
	headingMarkup = regexp.MustCompile(`#{1,6}\s+`)
	boldMarkup    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicMarkup  = regexp.MustCompile(`\*([^*]+)\*`)
)

// Extract builds the AnalysisContext for one exchange.
func Extract(answer, question string) models.AnalysisContext {
	return models.AnalysisContext{
		Question:  question,
		Summary:   Summarize(answer, MaxSummaryLength),
		Services:  ExtractServices(answer),
		Topics:    ExtractTopics(answer),
		CreatedAt: time.Now().UTC(),
	}
}

// ExtractServices returns the service names mentioned in the text,
// deduplicated case-insensitively (first occurrence wins) and sorted.
func ExtractServices(text string) []string {
	seen := make(map[string]string)
	for _, pattern := range servicePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			name := match[1]
			key := strings.ToLower(name)
			if _, ok := seen[key]; !ok {
				seen[key] = name
			}
		}
	}

	services := make([]string, 0, len(seen))
	for _, name := range seen {
		services = append(services, name)
	}
	sort.Strings(services)
	return services
}

// ExtractTopics pulls markdown section headings in document order, dropping
// generic titles and capping the result.
func ExtractTopics(text string) []string {
	topics := []string{}
	for _, match := range headingPattern.FindAllStringSubmatch(text, -1) {
		topic := strings.TrimSpace(match[1])
		if topic == "" || genericHeadings[strings.ToLower(topic)] {
			continue
		}
		topics = append(topics, topic)
		if len(topics) == topicLimit {
			break
		}
	}
	return topics
}

// Summarize strips markdown emphasis and headings, keeps the first
// paragraph, and truncates at the last whitespace boundary at or before
// maxLength with an ellipsis marker. Re-applying it to an already clean
// summary is a no-op.
func Summarize(text string, maxLength int) string {
	clean := headingMarkup.ReplaceAllString(text, "")
	clean = boldMarkup.ReplaceAllString(clean, "$1")
	clean = italicMarkup.ReplaceAllString(clean, "$1")

	summary := clean
	if idx := strings.Index(clean, "\n\n"); idx >= 0 {
		summary = clean[:idx]
	}

	if len(summary) > maxLength {
		cut := summary[:maxLength]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		summary = cut + "..."
	}

	return summary
}
