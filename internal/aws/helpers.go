package aws

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ParseTime parses an EC2 timestamp such as an image CreationDate.
// Missing or malformed values yield the zero time.
func ParseTime(s *string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, aws.ToString(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
