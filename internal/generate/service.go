package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"quickai-backend/internal/creations"
	"quickai-backend/internal/entitlement"
	"quickai-backend/internal/extract"
	"quickai-backend/internal/imagegen"
	"quickai-backend/internal/llm"
	"quickai-backend/internal/media"
	"quickai-backend/internal/shared/util"
)

// Generation parameter defaults.
const (
	defaultArticleTokens  = 800
	blogTitleTokens       = 100
	humanizeTokens        = 2000
	resumeReviewTokens    = 1000
	atsScoreTokens        = 1000
	maxHumanizeWords      = 1000
	defaultTemperature    = 0.7
	atsScoringTemperature = 0.2
)

const atsPromptFormat = `You are an ATS (applicant tracking system) evaluator. Compare the resume below against the job description and respond with ONLY a JSON object of the form {"score": <0-100>, "breakdown": {<skill>: <bool>, ...}, "feedback": <string>, "suggestions": [<string>, ...]}.

Job description:
%s

Resume:
%s`

// Service validates feature inputs, calls the appropriate external generation
// capability, and on success persists a creation and charges quota. A failed
// external call never mutates usage or persistence state.
type Service struct {
	LLM       llm.Client
	Images    imagegen.Client
	Media     media.Transformer
	Uploader  media.Uploader
	Creations creations.Repo
	Gate      *entitlement.Gate

	// ExtractText overrides PDF extraction; defaults to extract.PDFText.
	ExtractText func(data []byte) (string, error)
}

// Article generates an article from the prompt. Length, when positive, bounds
// the output size in tokens.
func (s *Service) Article(ctx context.Context, userID string, ent entitlement.Entitlement, prompt string, length int) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is required", ErrValidation)
	}
	if err := s.Gate.RequireQuota(ent); err != nil {
		return "", err
	}
	if length <= 0 {
		length = defaultArticleTokens
	}

	content, err := s.complete(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: defaultTemperature,
		MaxTokens:   length,
	})
	if err != nil {
		return "", err
	}

	if err := s.persist(ctx, userID, prompt, content, creations.TypeArticle, false); err != nil {
		return "", err
	}
	if err := s.Gate.Consume(ctx, userID, ent); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return content, nil
}

// BlogTitle generates blog title candidates from the prompt.
func (s *Service) BlogTitle(ctx context.Context, userID string, ent entitlement.Entitlement, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is required", ErrValidation)
	}
	if err := s.Gate.RequireQuota(ent); err != nil {
		return "", err
	}

	content, err := s.complete(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: defaultTemperature,
		MaxTokens:   blogTitleTokens,
	})
	if err != nil {
		return "", err
	}

	if err := s.persist(ctx, userID, prompt, content, creations.TypeBlogTitle, false); err != nil {
		return "", err
	}
	if err := s.Gate.Consume(ctx, userID, ent); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return content, nil
}

// Humanize rewrites the text to read naturally. Input over 1000 words is a
// validation error, not a quota error.
func (s *Service) Humanize(ctx context.Context, userID string, ent entitlement.Entitlement, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text is required", ErrValidation)
	}
	if util.WordCount(text) > maxHumanizeWords {
		return "", fmt.Errorf("%w: text must be %d words or fewer", ErrValidation, maxHumanizeWords)
	}
	if err := s.Gate.RequireQuota(ent); err != nil {
		return "", err
	}

	content, err := s.complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "Rewrite the user's text so it reads naturally and human-written, preserving its meaning. Respond with only the rewritten text."},
			{Role: llm.RoleUser, Content: text},
		},
		Temperature: defaultTemperature,
		MaxTokens:   humanizeTokens,
	})
	if err != nil {
		return "", err
	}

	if err := s.persist(ctx, userID, text, content, creations.TypeHumanizer, false); err != nil {
		return "", err
	}
	if err := s.Gate.Consume(ctx, userID, ent); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return content, nil
}

// Image synthesizes an image from the prompt, uploads it to durable hosting
// and returns its URL. Premium only; never charges quota.
func (s *Service) Image(ctx context.Context, userID string, ent entitlement.Entitlement, prompt string, publish bool) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is required", ErrValidation)
	}
	if err := s.Gate.RequirePremium(ent); err != nil {
		return "", err
	}
	if s.Images == nil || s.Uploader == nil {
		return "", fmt.Errorf("%w: image generation is not configured", ErrUpstream)
	}

	image, err := s.Images.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	url, err := s.Uploader.Upload(ctx, image, uuid.NewString()+".png")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := s.persist(ctx, userID, prompt, url, creations.TypeImage, publish); err != nil {
		return "", err
	}
	return url, nil
}

// RemoveBackground strips the background from the uploaded image and returns
// a URL to the transformed result. Premium only.
func (s *Service) RemoveBackground(ctx context.Context, userID string, ent entitlement.Entitlement, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: image is required", ErrValidation)
	}
	if err := s.Gate.RequirePremium(ent); err != nil {
		return "", err
	}
	if s.Media == nil {
		return "", fmt.Errorf("%w: media transformation is not configured", ErrUpstream)
	}

	url, err := s.Media.RemoveBackground(ctx, image)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := s.persist(ctx, userID, "Remove background from image", url, creations.TypeImage, false); err != nil {
		return "", err
	}
	return url, nil
}

// RemoveObject removes the named object from the uploaded image. The object
// name must be a single token; multi-word names are rejected before any media
// call is made. Premium only.
func (s *Service) RemoveObject(ctx context.Context, userID string, ent entitlement.Entitlement, image []byte, objectName string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: image is required", ErrValidation)
	}
	objectName = strings.TrimSpace(objectName)
	if objectName == "" || len(strings.Fields(objectName)) != 1 {
		return "", fmt.Errorf("%w: object name must be a single word", ErrValidation)
	}
	if err := s.Gate.RequirePremium(ent); err != nil {
		return "", err
	}
	if s.Media == nil {
		return "", fmt.Errorf("%w: media transformation is not configured", ErrUpstream)
	}

	url, err := s.Media.RemoveObject(ctx, image, objectName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if err := s.persist(ctx, userID, "Removed "+objectName+" from image", url, creations.TypeImage, false); err != nil {
		return "", err
	}
	return url, nil
}

// ResumeReview extracts text from the uploaded resume PDF and returns written
// feedback on it.
func (s *Service) ResumeReview(ctx context.Context, userID string, ent entitlement.Entitlement, pdf []byte) (string, error) {
	if len(pdf) == 0 {
		return "", fmt.Errorf("%w: resume is required", ErrValidation)
	}
	if err := s.Gate.RequireQuota(ent); err != nil {
		return "", err
	}

	resumeText, err := s.extractText(pdf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}

	content, err := s.complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "Review the user's resume and give constructive feedback on its strengths, weaknesses, and areas for improvement."},
			{Role: llm.RoleUser, Content: resumeText},
		},
		Temperature: defaultTemperature,
		MaxTokens:   resumeReviewTokens,
	})
	if err != nil {
		return "", err
	}

	if err := s.persist(ctx, userID, "Review the uploaded resume", content, creations.TypeResumeReview, false); err != nil {
		return "", err
	}
	if err := s.Gate.Consume(ctx, userID, ent); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return content, nil
}

// ATSScore evaluates the uploaded resume against a job description and
// returns a structured compatibility result.
func (s *Service) ATSScore(ctx context.Context, userID string, ent entitlement.Entitlement, pdf []byte, jobDescription string) (ATSResult, error) {
	if len(pdf) == 0 {
		return ATSResult{}, fmt.Errorf("%w: resume is required", ErrValidation)
	}
	if strings.TrimSpace(jobDescription) == "" {
		return ATSResult{}, fmt.Errorf("%w: job description is required", ErrValidation)
	}
	if err := s.Gate.RequireQuota(ent); err != nil {
		return ATSResult{}, err
	}

	resumeText, err := s.extractText(pdf)
	if err != nil {
		return ATSResult{}, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}

	raw, err := s.complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(atsPromptFormat, jobDescription, resumeText)},
		},
		Temperature: atsScoringTemperature,
		MaxTokens:   atsScoreTokens,
	})
	if err != nil {
		return ATSResult{}, err
	}

	result, err := ParseATSResponse(raw)
	if err != nil {
		return ATSResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	stored, err := json.Marshal(result)
	if err != nil {
		return ATSResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.persist(ctx, userID, "ATS score against job description", string(stored), creations.TypeATSScore, false); err != nil {
		return ATSResult{}, err
	}
	if err := s.Gate.Consume(ctx, userID, ent); err != nil {
		return ATSResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return result, nil
}

func (s *Service) persist(ctx context.Context, userID, prompt, content, typ string, publish bool) error {
	_, err := s.Creations.Create(ctx, creations.Creation{
		UserID:  userID,
		Prompt:  prompt,
		Content: content,
		Type:    typ,
		Publish: publish,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (s *Service) complete(ctx context.Context, req llm.Request) (string, error) {
	if s.LLM == nil {
		return "", fmt.Errorf("%w: text generation is not configured", ErrUpstream)
	}
	out, err := s.LLM.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return out, nil
}

func (s *Service) extractText(pdf []byte) (string, error) {
	if s.ExtractText != nil {
		return s.ExtractText(pdf)
	}
	return extract.PDFText(pdf)
}
