package scraper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vlive-notify/internal/domain/entity"

	"github.com/PuerkitoBio/goquery"
)

// ErrNodeUnparseable indicates a candidate node is missing a required
// structural marker or carries a non-numeric sequence attribute. The node is
// skipped; the rest of the snapshot is unaffected.
var ErrNodeUnparseable = errors.New("video node unparseable")

// Structural markers inside one candidate node. The last match wins when a
// node nests several, matching the upstream markup.
const (
	thumbAreaClass = "thumb_area"
	nameAreaClass  = "name_area"
)

// ExtractVideo maps one candidate node to a Video.
//
// The node must contain a thumbnail area and a name area; the video fields
// come from attributes on the thumbnail area, the channel fields from the
// name area. Missing optional attributes fall back to the field's zero
// value. A missing area or a non-numeric sequence attribute makes the whole
// node unparseable.
func ExtractVideo(node *goquery.Selection) (*entity.Video, error) {
	thumb := node.Find("." + thumbAreaClass).Last()
	if thumb.Length() == 0 {
		return nil, unparseable(thumbAreaClass, "missing structural marker")
	}
	name := node.Find("." + nameAreaClass).Last()
	if name.Length() == 0 {
		return nil, unparseable(nameAreaClass, "missing structural marker")
	}

	videoSeq, err := attrUint(thumb, "data-seq")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNodeUnparseable, err)
	}
	channelSeq, err := attrUint(name, "data-ga-cseq")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNodeUnparseable, err)
	}

	video := &entity.Video{
		VideoID:     attrString(thumb, "href"),
		VideoSeq:    videoSeq,
		Title:       attrString(thumb, "data-ga-name"),
		VideoType:   videoType(attrString(thumb, "data-ga-type")),
		Thumbnail:   thumbnailURL(thumb),
		ChannelID:   attrString(name, "href"),
		ChannelSeq:  channelSeq,
		ChannelName: attrString(name, "data-ga-cname"),
		ChannelType: channelType(attrString(name, "data-ga-ctype")),
	}

	return video, nil
}

// unparseable wraps a field-level validation failure in the node sentinel so
// callers can match either ErrNodeUnparseable or entity.ErrValidationFailed.
func unparseable(field, message string) error {
	return fmt.Errorf("%w: %w", ErrNodeUnparseable, &entity.ValidationError{
		Field:   field,
		Message: message,
	})
}

// attrString returns the trimmed attribute value, or "" when absent.
func attrString(sel *goquery.Selection, name string) string {
	value, _ := sel.Attr(name)
	return strings.TrimSpace(value)
}

// attrUint parses an unsigned numeric attribute. An absent attribute is 0;
// a present but non-numeric one is a validation error naming the attribute.
func attrUint(sel *goquery.Selection, name string) (uint64, error) {
	value, exists := sel.Attr(name)
	if !exists {
		return 0, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, &entity.ValidationError{
			Field:   name,
			Message: fmt.Sprintf("non-numeric value %q", value),
		}
	}
	return n, nil
}

// thumbnailURL finds the src of the first descendant carrying a src
// attribute. Some live entries have none; that is not an error.
func thumbnailURL(thumb *goquery.Selection) string {
	src, _ := thumb.Find("[src]").First().Attr("src")
	return strings.TrimSpace(src)
}

func videoType(attr string) entity.VideoType {
	if attr == "LIVE" {
		return entity.VideoTypeLive
	}
	return entity.VideoTypeVOD
}

func channelType(attr string) entity.ChannelType {
	if attr == "PLUS" {
		return entity.ChannelTypePlus
	}
	return entity.ChannelTypeBasic
}
