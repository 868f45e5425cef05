package views

import (
	"errors"

	"swcommons/internal/render"
	"swcommons/internal/schema"
	"swcommons/pkg/models"
)

// ShareTitlePrefix heads the title of every shared blog post
const ShareTitlePrefix = "Social Work Files: "

// ErrShareUnsupported is returned by a NativeSharer that cannot share on this host
var ErrShareUnsupported = errors.New("native share is not available")

// NativeSharer hands a link to the host's share capability
type NativeSharer interface {
	Share(title, text, url string) error
}

// ShareMethod says how a blog post was shared
type ShareMethod string

const (
	ShareNative ShareMethod = "native"
	ShareMailto ShareMethod = "mailto"
)

// SharedPost is the result of sharing a blog post
type SharedPost struct {
	Method ShareMethod
	// Link is the anchored post URL, or the mailto compose link on fallback
	Link string
}

// ShareBlogPost uses the native share capability when present, otherwise
// returns a prefilled email compose link.
func ShareBlogPost(native NativeSharer, baseURL string, def *schema.EntityDefinition, post *models.BlogPost) (*SharedPost, error) {
	title := ShareTitlePrefix + post.Title
	link := render.BlogLink(baseURL, def.Route, post.Title)
	excerpt, err := render.MarkdownText(post.Excerpt)
	if err != nil {
		excerpt = post.Excerpt
	}

	if native != nil {
		err := native.Share(title, excerpt, link)
		switch {
		case err == nil:
			return &SharedPost{Method: ShareNative, Link: link}, nil
		case !errors.Is(err, ErrShareUnsupported):
			return nil, &models.UnknownError{Op: "share", Err: err}
		}
	}
	return &SharedPost{Method: ShareMailto, Link: render.MailtoShare(title, excerpt, link)}, nil
}
