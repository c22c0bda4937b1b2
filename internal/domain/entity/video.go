// Package entity defines the core domain entities for the notifier.
// It contains the Video value object extracted from the VLive recent-videos
// page, along with its enums and domain-specific errors.
package entity

// VideoType identifies how a video is delivered.
// A video is either a VOD (video on demand, a normal upload) or a LIVE
// stream that is currently broadcasting.
type VideoType int

const (
	// VideoTypeVOD is a normal on-demand video.
	VideoTypeVOD VideoType = iota

	// VideoTypeLive is a currently running live stream.
	VideoTypeLive
)

// String returns the upstream attribute value for the video type.
func (t VideoType) String() string {
	if t == VideoTypeLive {
		return "LIVE"
	}
	return "VOD"
}

// ChannelType identifies the tier of the publishing channel.
// Most channels are Basic; Plus ("Channel+") is a paid premium tier.
type ChannelType int

const (
	// ChannelTypeBasic is a normal channel.
	ChannelTypeBasic ChannelType = iota

	// ChannelTypePlus is a premium Channel+ channel.
	ChannelTypePlus
)

// String returns the upstream attribute value for the channel type.
func (t ChannelType) String() string {
	if t == ChannelTypePlus {
		return "PLUS"
	}
	return "BASIC"
}

// Video represents one entry on the VLive recent-videos page.
//
// VideoSeq is the upstream's monotonically assigned sequence number and is
// the sole identity and ordering key used for novelty detection. A Video is
// a value: it is never mutated after extraction.
type Video struct {
	VideoID     string
	VideoSeq    uint64
	Title       string
	VideoType   VideoType
	Thumbnail   string // empty for some live entries
	ChannelID   string
	ChannelSeq  uint64
	ChannelName string
	ChannelType ChannelType
}
