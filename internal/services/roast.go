package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/imaging"
	"github.com/yungbote/roastmycode-backend/internal/platform/ctxutil"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/prompts"
	"github.com/yungbote/roastmycode-backend/internal/schema"
)

const (
	DefaultMaxInflight = 16
	logPrefixBytes     = 500
)

type ExplainBackInput struct {
	Code            string
	Language        roast.Language
	CorrectedCode   string
	UserExplanation string
}

// ImageAnalysis holds exactly one of Extracted or Solution depending on Mode.
type ImageAnalysis struct {
	Mode      roast.ImageMode
	Extracted *roast.ExtractedCode
	Solution  *roast.QuestionSolution
}

type RoastService interface {
	Roast(ctx context.Context, code string, lang roast.Language) (roast.Result, error)
	ExplainBack(ctx context.Context, in ExplainBackInput) (roast.ExplainBackVerdict, error)
	AnalyzeImage(ctx context.Context, image string, mode roast.ImageMode) (ImageAnalysis, error)
}

type roastService struct {
	log     *logger.Logger
	gateway Gateway
	sem     *semaphore.Weighted
}

// NewRoastService bounds concurrent upstream calls to maxInflight.
func NewRoastService(log *logger.Logger, gateway Gateway, maxInflight int) RoastService {
	if log == nil {
		log = logger.NewNop()
	}
	if maxInflight <= 0 {
		maxInflight = DefaultMaxInflight
	}
	return &roastService{
		log:     log.With("service", "RoastService"),
		gateway: gateway,
		sem:     semaphore.NewWeighted(int64(maxInflight)),
	}
}

func (s *roastService) Roast(ctx context.Context, code string, lang roast.Language) (roast.Result, error) {
	if strings.TrimSpace(code) == "" || !lang.Valid() {
		return roast.Result{}, roast.Errorf(roast.KindInvalidRequest, roast.KindInvalidRequest.UserMessage())
	}
	s.log.Debug("roasting code", append([]interface{}{"language", lang, "code_bytes", len(code)}, ctxutil.LogFields(ctx)...)...)

	raw, err := s.complete(ctx, prompts.ComposeRoast(code, lang))
	if err != nil {
		return roast.Result{}, err
	}
	res, err := schema.ParseRoast(raw)
	if err != nil {
		s.logUnparsable(ctx, "roast", raw, err)
		return roast.Result{}, err
	}
	return res, nil
}

func (s *roastService) ExplainBack(ctx context.Context, in ExplainBackInput) (roast.ExplainBackVerdict, error) {
	if strings.TrimSpace(in.Code) == "" || !in.Language.Valid() {
		return roast.ExplainBackVerdict{}, roast.Errorf(roast.KindInvalidRequest, roast.KindInvalidRequest.UserMessage())
	}
	if strings.TrimSpace(in.UserExplanation) == "" {
		return roast.ExplainBackVerdict{}, roast.Errorf(roast.KindInvalidRequest, "Explanation toh likh bhai")
	}
	raw, err := s.complete(ctx, prompts.ComposeExplainBack(in.Code, in.Language, in.CorrectedCode, in.UserExplanation))
	if err != nil {
		return roast.ExplainBackVerdict{}, err
	}
	v, err := schema.ParseExplainBack(raw)
	if err != nil {
		s.logUnparsable(ctx, "explain-back", raw, err)
		return roast.ExplainBackVerdict{}, err
	}
	return v, nil
}

func (s *roastService) AnalyzeImage(ctx context.Context, image string, mode roast.ImageMode) (ImageAnalysis, error) {
	if strings.TrimSpace(image) == "" {
		return ImageAnalysis{}, roast.Errorf(roast.KindInvalidRequest, "Image data chahiye bhai")
	}
	prepared, err := imaging.PrepareForVision(image)
	switch {
	case err == nil:
		image = prepared
	case errors.Is(err, imaging.ErrEmptyImage):
		return ImageAnalysis{}, roast.Errorf(roast.KindInvalidRequest, "Image data chahiye bhai")
	case errors.Is(err, imaging.ErrImageTooLarge):
		return ImageAnalysis{}, &roast.Error{Kind: roast.KindInvalidRequest, Message: "Image bahut badi hai bhai, chhoti bhej", Err: err}
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		// Let the model try formats we cannot decode.
		s.log.Debug("image passthrough", "reason", err.Error())
	default:
		return ImageAnalysis{}, &roast.Error{Kind: roast.KindInvalidRequest, Message: "Image data sahi nahi hai bhai", Err: err}
	}
	s.log.Info("Analyzing image", append([]interface{}{"mode", mode}, ctxutil.LogFields(ctx)...)...)

	raw, err := s.complete(ctx, prompts.ComposeImage(image, mode))
	if err != nil {
		return ImageAnalysis{}, err
	}
	out := ImageAnalysis{Mode: mode}
	if mode == roast.ImageModeExtractCode {
		ex, err := schema.ParseExtractedCode(raw)
		if err != nil {
			s.logUnparsable(ctx, string(mode), raw, err)
			return ImageAnalysis{}, err
		}
		out.Extracted = &ex
		return out, nil
	}
	sol, err := schema.ParseQuestionSolution(raw)
	if err != nil {
		s.logUnparsable(ctx, string(mode), raw, err)
		return ImageAnalysis{}, err
	}
	out.Solution = &sol
	return out, nil
}

// complete holds a semaphore slot for the upstream call. Waiting stops as
// soon as ctx is done.
func (s *roastService) complete(ctx context.Context, req prompts.Request) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", roast.NewError(roast.KindUpstreamUnavailable, err)
	}
	defer s.sem.Release(1)
	return s.gateway.Complete(ctx, req)
}

func (s *roastService) logUnparsable(ctx context.Context, mode, raw string, err error) {
	prefix := raw
	if len(prefix) > logPrefixBytes {
		prefix = prefix[:logPrefixBytes]
	}
	s.log.Error("Failed to parse AI response as JSON",
		append([]interface{}{"mode", mode, "error", err, "content", prefix}, ctxutil.LogFields(ctx)...)...)
}
