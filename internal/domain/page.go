package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"sort"
	"strings"
	"time"
)

type BlockType string

const (
	BlockHero     BlockType = "hero"
	BlockServices BlockType = "services"
	BlockAbout    BlockType = "about"
	BlockContact  BlockType = "contact"
)

const (
	MaxBlocksPerPage    = 50
	MaxBlockTitleLength = 200
	MaxBlockTextLength  = 10000
)

// BlockContent typed payload of a page block
type BlockContent interface {
	Type() BlockType
	Validate(v *ValidationError, field string)
}

type HeroContent struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

type ServicesContent struct {
	Title string `json:"title"`
}

type AboutContent struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type ContactContent struct {
	Title   string  `json:"title"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (HeroContent) Type() BlockType     { return BlockHero }
func (ServicesContent) Type() BlockType { return BlockServices }
func (AboutContent) Type() BlockType    { return BlockAbout }
func (ContactContent) Type() BlockType  { return BlockContact }

func (c HeroContent) Validate(v *ValidationError, field string) {
	validateTitle(v, field, c.Title, true)
	if c.ImageURL != nil && !IsHTTPURL(*c.ImageURL) {
		v.Add(field+".image_url", "must be an http(s) URL")
	}
}

func (c ServicesContent) Validate(v *ValidationError, field string) {
	validateTitle(v, field, c.Title, false)
}

func (c AboutContent) Validate(v *ValidationError, field string) {
	validateTitle(v, field, c.Title, true)
	if strings.TrimSpace(c.Text) == "" {
		v.Add(field+".text", "is required")
	} else if len(c.Text) > MaxBlockTextLength {
		v.Add(field+".text", fmt.Sprintf("must be at most %d characters", MaxBlockTextLength))
	}
}

func (c ContactContent) Validate(v *ValidationError, field string) {
	validateTitle(v, field, c.Title, false)
	if c.Email != nil {
		if _, err := mail.ParseAddress(*c.Email); err != nil {
			v.Add(field+".email", "must be a valid email address")
		}
	}
	if c.Phone == nil && c.Email == nil && c.Address == nil {
		v.Add(field, "at least one of phone, email or address is required")
	}
}

func validateTitle(v *ValidationError, field, title string, required bool) {
	if required && strings.TrimSpace(title) == "" {
		v.Add(field+".title", "is required")
	}
	if len(title) > MaxBlockTitleLength {
		v.Add(field+".title", fmt.Sprintf("must be at most %d characters", MaxBlockTitleLength))
	}
}

// IsHTTPURL accepts absolute http and https URLs
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// DecodeBlockContent decodes raw JSON into the schema of the given block type.
// Unknown keys are rejected.
func DecodeBlockContent(t BlockType, raw json.RawMessage) (BlockContent, error) {
	var target BlockContent
	switch t {
	case BlockHero:
		target = &HeroContent{}
	case BlockServices:
		target = &ServicesContent{}
	case BlockAbout:
		target = &AboutContent{}
	case BlockContact:
		target = &ContactContent{}
	default:
		return nil, fmt.Errorf("%w: unknown block type %q", ErrInvalidInput, t)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return nil, fmt.Errorf("%w: %s content: %v", ErrInvalidInput, t, err)
	}

	switch c := target.(type) {
	case *HeroContent:
		return *c, nil
	case *ServicesContent:
		return *c, nil
	case *AboutContent:
		return *c, nil
	case *ContactContent:
		return *c, nil
	}
	return nil, fmt.Errorf("%w: unknown block type %q", ErrInvalidInput, t)
}

// Block ordered section of a business landing page
type Block struct {
	ID         int64
	BusinessID int64
	Type       BlockType
	Order      int
	Content    BlockContent
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SortBlocks orders blocks by Order, ties broken by ID
func SortBlocks(blocks []Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Order != blocks[j].Order {
			return blocks[i].Order < blocks[j].Order
		}
		return blocks[i].ID < blocks[j].ID
	})
}

// Page landing page of a business
type Page struct {
	BusinessID int64
	Blocks     []Block
}
