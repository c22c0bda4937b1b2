package scraper_test

import (
	"errors"
	"strings"
	"testing"

	"vlive-notify/internal/domain/entity"
	"vlive-notify/internal/infra/scraper"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nodeFromHTML parses an HTML fragment and returns the first candidate node.
func nodeFromHTML(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	node := doc.Find(".video_list_cont").First()
	require.NotZero(t, node.Length(), "fixture must contain a .video_list_cont node")
	return node
}

const fullNode = `
<div class="video_list_cont">
  <a class="thumb_area" href="/video/12345" data-seq="12345"
     data-ga-name="Comeback Stage" data-ga-type="VOD">
    <img src="http://img.example.com/thumb.jpg" alt="">
  </a>
  <a class="name_area" href="/channels/ABC123" data-ga-cseq="77"
     data-ga-cname="Test Channel" data-ga-ctype="BASIC">Test Channel</a>
</div>`

func TestExtractVideo_AllFields(t *testing.T) {
	video, err := scraper.ExtractVideo(nodeFromHTML(t, fullNode))
	require.NoError(t, err)

	want := &entity.Video{
		VideoID:     "/video/12345",
		VideoSeq:    12345,
		Title:       "Comeback Stage",
		VideoType:   entity.VideoTypeVOD,
		Thumbnail:   "http://img.example.com/thumb.jpg",
		ChannelID:   "/channels/ABC123",
		ChannelSeq:  77,
		ChannelName: "Test Channel",
		ChannelType: entity.ChannelTypeBasic,
	}
	assert.Equal(t, want, video)
}

func TestExtractVideo_LiveAndPlus(t *testing.T) {
	html := `
<div class="video_list_cont">
  <a class="thumb_area" href="/video/9" data-seq="9"
     data-ga-name="Live Broadcast" data-ga-type="LIVE"></a>
  <a class="name_area" href="/channels/X" data-ga-cseq="3"
     data-ga-cname="Plus Channel" data-ga-ctype="PLUS"></a>
</div>`

	video, err := scraper.ExtractVideo(nodeFromHTML(t, html))
	require.NoError(t, err)

	assert.Equal(t, entity.VideoTypeLive, video.VideoType)
	assert.Equal(t, entity.ChannelTypePlus, video.ChannelType)
	// Live entries often carry no thumbnail.
	assert.Empty(t, video.Thumbnail)
}

func TestExtractVideo_MissingOptionalAttributesDefault(t *testing.T) {
	html := `
<div class="video_list_cont">
  <a class="thumb_area" data-seq="42"></a>
  <a class="name_area"></a>
</div>`

	video, err := scraper.ExtractVideo(nodeFromHTML(t, html))
	require.NoError(t, err)

	assert.Equal(t, uint64(42), video.VideoSeq)
	assert.Empty(t, video.VideoID)
	assert.Empty(t, video.Title)
	assert.Equal(t, entity.VideoTypeVOD, video.VideoType)
	assert.Empty(t, video.ChannelID)
	assert.Zero(t, video.ChannelSeq)
	assert.Empty(t, video.ChannelName)
	assert.Equal(t, entity.ChannelTypeBasic, video.ChannelType)
}

func TestExtractVideo_MissingThumbArea(t *testing.T) {
	html := `
<div class="video_list_cont">
  <a class="name_area" href="/channels/X" data-ga-cseq="3"></a>
</div>`

	_, err := scraper.ExtractVideo(nodeFromHTML(t, html))
	assert.ErrorIs(t, err, scraper.ErrNodeUnparseable)
}

func TestExtractVideo_MissingNameArea(t *testing.T) {
	html := `
<div class="video_list_cont">
  <a class="thumb_area" href="/video/1" data-seq="1"></a>
</div>`

	_, err := scraper.ExtractVideo(nodeFromHTML(t, html))
	assert.ErrorIs(t, err, scraper.ErrNodeUnparseable)
}

func TestExtractVideo_NonNumericSeq(t *testing.T) {
	html := `
<div class="video_list_cont">
  <a class="thumb_area" href="/video/x" data-seq="not-a-number"></a>
  <a class="name_area" href="/channels/X" data-ga-cseq="3"></a>
</div>`

	_, err := scraper.ExtractVideo(nodeFromHTML(t, html))
	assert.ErrorIs(t, err, scraper.ErrNodeUnparseable)
}

func TestExtractVideo_NonNumericChannelSeq(t *testing.T) {
	html := `
<div class="video_list_cont">
  <a class="thumb_area" href="/video/1" data-seq="1"></a>
  <a class="name_area" href="/channels/X" data-ga-cseq="abc"></a>
</div>`

	_, err := scraper.ExtractVideo(nodeFromHTML(t, html))
	assert.ErrorIs(t, err, scraper.ErrNodeUnparseable)
}

func TestExtractVideo_LastMatchingAreaWins(t *testing.T) {
	html := `
<div class="video_list_cont">
  <a class="thumb_area" data-seq="1" data-ga-name="outer"></a>
  <a class="thumb_area" data-seq="2" data-ga-name="inner"></a>
  <a class="name_area" data-ga-cseq="5" data-ga-cname="last"></a>
</div>`

	video, err := scraper.ExtractVideo(nodeFromHTML(t, html))
	require.NoError(t, err)

	assert.Equal(t, uint64(2), video.VideoSeq)
	assert.Equal(t, "inner", video.Title)
	assert.Equal(t, "last", video.ChannelName)
}

func TestExtractVideo_UnwrapsSentinel(t *testing.T) {
	html := `<div class="video_list_cont"></div>`

	_, err := scraper.ExtractVideo(nodeFromHTML(t, html))
	require.Error(t, err)
	assert.True(t, errors.Is(err, scraper.ErrNodeUnparseable))
	assert.True(t, errors.Is(err, entity.ErrValidationFailed))
}

func TestExtractVideo_ValidationErrorNamesField(t *testing.T) {
	html := `<div class="video_list_cont">
		<a class="thumb_area" data-seq="oops"></a>
		<a class="name_area"></a>
	</div>`

	_, err := scraper.ExtractVideo(nodeFromHTML(t, html))
	require.Error(t, err)
	assert.True(t, errors.Is(err, scraper.ErrNodeUnparseable))
	assert.True(t, errors.Is(err, entity.ErrValidationFailed))

	var vErr *entity.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "data-seq", vErr.Field)
	assert.Contains(t, vErr.Message, "oops")
}
