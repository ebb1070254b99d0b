package dao

import (
	"context"
	"fmt"
	"log/slog"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/im-n1/kosatka/internal/aws"
)

const gib = 1 << 30

func init() {
	RegisterAccessor(AMIRID, func() Accessor { return new(AMI) })
}

type amiAPI interface {
	ec2.DescribeImagesAPIClient
	DeregisterImage(context.Context, *ec2.DeregisterImageInput, ...func(*ec2.Options)) (*ec2.DeregisterImageOutput, error)
}

// AMI is the DAO for machine images owned by the caller's account.
type AMI struct {
	binding

	api amiAPI
}

func (a *AMI) client() (amiAPI, error) {
	if a.api != nil {
		return a.api, nil
	}
	f := a.backend()
	if f == nil {
		return nil, fmt.Errorf("factory not initialized")
	}
	conn := f.AWS()
	if conn == nil {
		return nil, newBackendError(ErrConnection, "connect", "", aws.ErrNoConnection)
	}
	c := conn.EC2(f.Region())
	if c == nil {
		return nil, newBackendError(ErrConnection, "connect", f.Region(), fmt.Errorf("no EC2 client for region %s", f.Region()))
	}

	return c, nil
}

// List returns all AMIs owned by the active account in the active region.
func (a *AMI) List(ctx context.Context) ([]Resource, error) {
	api, err := a.client()
	if err != nil {
		return nil, err
	}

	input := &ec2.DescribeImagesInput{Owners: []string{"self"}}
	paginator := ec2.NewDescribeImagesPaginator(api, input)

	var rr []Resource
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyAWS(err, "describe images", "")
		}
		for _, img := range output.Images {
			rr = append(rr, amiToResource(img))
		}
	}

	return rr, nil
}

// Remove deregisters the AMI.
func (a *AMI) Remove(ctx context.Context, id string) error {
	api, err := a.client()
	if err != nil {
		return err
	}

	slog.Debug("Deregistering image", "id", id)
	_, err = api.DeregisterImage(ctx, &ec2.DeregisterImageInput{ImageId: &id})
	if err != nil {
		return classifyAWS(err, "deregister image", id)
	}

	return nil
}

func amiToResource(img types.Image) Resource {
	var size uint64
	refs := make([]string, 0, len(img.BlockDeviceMappings))
	for _, bdm := range img.BlockDeviceMappings {
		if bdm.Ebs == nil {
			continue
		}
		size += uint64(max(awsv2.ToInt32(bdm.Ebs.VolumeSize), 0)) * gib
		if bdm.Ebs.SnapshotId != nil {
			refs = append(refs, *bdm.Ebs.SnapshotId)
		}
	}

	return Resource{
		ID:        awsv2.ToString(img.ImageId),
		Name:      awsv2.ToString(img.Name),
		Size:      size,
		CreatedAt: aws.ParseTime(img.CreationDate),
		Refs:      refs,
		Raw:       img,
	}
}

func classifyAWS(err error, op, id string) error {
	wrapped := aws.WrapAWSError(err, op)
	switch aws.ErrorCode(err) {
	case "InvalidAMIID.NotFound", "InvalidAMIID.Unavailable", "InvalidAMIID.Malformed":
		return newBackendError(ErrNotFound, op, id, wrapped)
	case "IncorrectState", "DependencyViolation", "InvalidState":
		return newBackendError(ErrInUse, op, id, wrapped)
	case "":
		return newBackendError(ErrConnection, op, id, wrapped)
	}
	if op == "describe images" {
		return newBackendError(ErrProtocol, op, id, wrapped)
	}

	return newBackendError(ErrConnection, op, id, wrapped)
}
