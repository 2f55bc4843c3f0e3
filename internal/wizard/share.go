package wizard

import (
	"net/url"
	"strings"
)

// Download artifact and messaging deep link defaults.
const (
	ArtifactPrefix      = "survey_lingkungan_"
	ArtifactExt         = ".txt"
	ArtifactContentType = "text/plain; charset=utf-8"

	DefaultShareBase    = "https://wa.me"
	DefaultShareContact = "6281264656570"
)

// Artifact is the downloadable report.
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

// NewArtifact packages summary as survey_lingkungan_<nik>.txt.
func NewArtifact(nationalID, summary string) Artifact {
	return Artifact{
		Filename:    ArtifactPrefix + nationalID + ArtifactExt,
		ContentType: ArtifactContentType,
		Body:        []byte(summary),
	}
}

// ShareMessage is the pre-filled chat text.
func ShareMessage(b Biodata) string {
	return "Halo, saya " + b.FullName + " dari " + b.Institution +
		". Saya telah mengisi survey lingkungan sekolah dan mengunduh file konfirmasi." +
		" Apakah bisa mendapatkan informasi lebih lanjut?"
}

// ShareLink builds <base>/<contact>?text=<message>.  Empty base or contact
// fall back to the defaults.
func ShareLink(base, contact string, b Biodata) string {
	if base == "" {
		base = DefaultShareBase
	}
	if contact == "" {
		contact = DefaultShareContact
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(contact) +
		"?text=" + encodeComponent(ShareMessage(b))
}

// uriUnreserved restores the marks encodeURIComponent leaves literal.
var uriUnreserved = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent percent-encodes s the way encodeURIComponent does.
func encodeComponent(s string) string {
	return uriUnreserved.Replace(url.QueryEscape(s))
}
