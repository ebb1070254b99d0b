package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/containerd/containerd/images"
	"github.com/dustin/go-humanize"
	"github.com/im-n1/kosatka/internal/dao"
	"github.com/moby/moby/api/types/image"
)

// Field is one labelled line of a resource description.
type Field struct {
	Key   string
	Value string
}

// Describe lists the details of a resource, relative times measured from now.
func Describe(r dao.Resource, now time.Time) []Field {
	ff := []Field{
		{Key: "ID", Value: r.ID},
		{Key: "Name", Value: Missing(r.Name)},
		{Key: "Size", Value: fmt.Sprintf("%s (%s bytes)", HumanizeSize(r.Size, AutoPlaces), humanize.Comma(int64(r.Size)))},
		{Key: "Created", Value: describeTime(r.CreatedAt, now)},
	}
	for _, ref := range r.Refs {
		ff = append(ff, Field{Key: "Ref", Value: ref})
	}

	switch raw := r.Raw.(type) {
	case []images.Image:
		ff = append(ff, describeImages(raw)...)
	case image.Summary:
		ff = append(ff, describeDocker(raw)...)
	case types.Image:
		ff = append(ff, describeAMI(raw)...)
	}

	return ff
}

func describeTime(t, now time.Time) string {
	if t.IsZero() {
		return UnknownValue
	}
	return fmt.Sprintf("%s (%s)", t.UTC().Format(time.RFC3339), humanize.RelTime(t, now, "ago", "from now"))
}

func describeImages(imgs []images.Image) []Field {
	if len(imgs) == 0 {
		return nil
	}
	ff := []Field{{Key: "Media Type", Value: NA(imgs[0].Target.MediaType)}}
	for _, img := range imgs {
		if !img.UpdatedAt.IsZero() {
			ff = append(ff, Field{Key: "Updated", Value: img.Name + " " + humanize.Time(img.UpdatedAt)})
		}
	}
	labels := make(map[string]string)
	for _, img := range imgs {
		for k, v := range img.Labels {
			labels[k] = v
		}
	}

	return append(ff, describeLabels(labels)...)
}

func describeDocker(img image.Summary) []Field {
	ff := []Field{{Key: "Parent", Value: NA(img.ParentID)}}
	if img.Containers >= 0 {
		ff = append(ff, Field{Key: "Containers", Value: fmt.Sprintf("%d", img.Containers)})
	}
	for _, d := range img.RepoDigests {
		ff = append(ff, Field{Key: "Digest", Value: d})
	}

	return append(ff, describeLabels(img.Labels)...)
}

func describeLabels(labels map[string]string) []Field {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ff := make([]Field, 0, len(keys))
	for _, k := range keys {
		ff = append(ff, Field{Key: "Label", Value: k + "=" + labels[k]})
	}

	return ff
}

func describeAMI(img types.Image) []Field {
	ff := []Field{
		{Key: "State", Value: NA(string(img.State))},
		{Key: "Architecture", Value: NA(string(img.Architecture))},
		{Key: "Platform", Value: NA(deref(img.PlatformDetails))},
		{Key: "Root Device", Value: NA(deref(img.RootDeviceName))},
		{Key: "Description", Value: Missing(deref(img.Description))},
	}
	if img.Public != nil {
		ff = append(ff, Field{Key: "Public", Value: fmt.Sprintf("%t", *img.Public)})
	}
	for _, tag := range img.Tags {
		ff = append(ff, Field{Key: "Tag", Value: deref(tag.Key) + "=" + deref(tag.Value)})
	}

	return ff
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
