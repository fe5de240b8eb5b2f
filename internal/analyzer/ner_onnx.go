//go:build onnx
// +build onnx

package analyzer

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"unicode"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"

	"github.com/veilware/veil/internal/pii"
)

// maxNERTokens caps the sequence fed to the model. Longer texts are scanned
// by the pattern recognizers anyway; the model only augments the front.
const maxNERTokens = 512

// onnxNER implements NERBackend using ONNX Runtime (via yalue/onnxruntime_go)
// with a BIO-labelled token-classification model.
type onnxNER struct {
	session    *ort.DynamicAdvancedSession
	inputNames []string
	outputName string
	vocab      map[string]int64
	unkID      int64
	labels     []string
	logger     *zap.Logger
	ready      bool
	mu         sync.RWMutex
}

// NewNERBackend initializes the ONNX Runtime backend. Requires build tag 'onnx'.
func NewNERBackend(logger *zap.Logger, cfg *NERConfig) NERBackend {
	// Allow user to provide shared library path via environment variable.
	if shlib := os.Getenv("ONNXRUNTIME_SHARED_LIB"); shlib != "" {
		ort.SetSharedLibraryPath(shlib)
	} else if shlib := os.Getenv("ORT_SHLIB"); shlib != "" {
		ort.SetSharedLibraryPath(shlib)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		logger.Error("ONNX Runtime environment init failed", zap.Error(err))
		return nil
	}

	vocab, unkID, err := loadVocab(cfg.VocabPath)
	if err != nil {
		logger.Error("Failed to load NER vocabulary", zap.Error(err), zap.String("vocab", cfg.VocabPath))
		return nil
	}

	inputsInfo, outputsInfo, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		logger.Error("Failed to inspect NER model IO", zap.Error(err), zap.String("model", cfg.ModelPath))
		return nil
	}

	preferredInputs := []string{"input_ids", "attention_mask"}
	available := map[string]bool{}
	for _, ii := range inputsInfo {
		available[strings.ToLower(ii.Name)] = true
	}
	var inputNames []string
	for _, name := range preferredInputs {
		if available[name] {
			inputNames = append(inputNames, name)
		}
	}
	if len(inputNames) == 0 {
		logger.Error("NER model declares no usable inputs", zap.String("model", cfg.ModelPath))
		return nil
	}
	if len(outputsInfo) == 0 {
		logger.Error("NER model reports no outputs", zap.String("model", cfg.ModelPath))
		return nil
	}
	outputName := outputsInfo[0].Name

	sess, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, inputNames, []string{outputName}, nil)
	if err != nil {
		logger.Error("NER session creation failed", zap.Error(err), zap.String("model", cfg.ModelPath))
		return nil
	}

	logger.Info("NER backend ready",
		zap.String("model", cfg.ModelPath),
		zap.Int("vocab_size", len(vocab)),
		zap.Strings("labels", cfg.Labels))
	return &onnxNER{
		session:    sess,
		inputNames: inputNames,
		outputName: outputName,
		vocab:      vocab,
		unkID:      unkID,
		labels:     cfg.Labels,
		logger:     logger,
		ready:      true,
	}
}

// IsReady reports whether the backend is initialized.
func (b *onnxNER) IsReady() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ready && b.session != nil
}

// Close releases session and environment resources.
func (b *onnxNER) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session != nil {
		b.session.Destroy()
		b.session = nil
	}
	ort.DestroyEnvironment()
	b.ready = false
	return nil
}

// Recognize runs one inference pass and decodes BIO label runs into spans.
func (b *onnxNER) Recognize(ctx context.Context, text string, lang pii.Language) ([]pii.EntityMatch, error) {
	if !b.IsReady() {
		return nil, fmt.Errorf("ner backend not ready")
	}

	tokens := wordTokens(text)
	if len(tokens) == 0 {
		return nil, nil
	}
	if len(tokens) > maxNERTokens {
		tokens = tokens[:maxNERTokens]
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	seq := len(tokens)
	ids := make([]int64, seq)
	mask := make([]int64, seq)
	for i, t := range tokens {
		ids[i] = b.lookup(text[t.start:t.end])
		mask[i] = 1
	}

	shape := ort.NewShape(1, int64(seq))
	idsTensor, err := ort.NewTensor[int64](shape, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor[int64](shape, mask)
	if err != nil {
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	inputs := make([]ort.Value, 0, len(b.inputNames))
	for _, name := range b.inputNames {
		switch strings.ToLower(name) {
		case "attention_mask":
			inputs = append(inputs, maskTensor)
		default:
			inputs = append(inputs, idsTensor)
		}
	}

	outputs := make([]ort.Value, 1)
	if err := b.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("ner run failed: %w", err)
	}
	if len(outputs) == 0 || outputs[0] == nil {
		return nil, fmt.Errorf("ner model returned no outputs")
	}
	defer func() {
		if outputs[0] != nil {
			_ = outputs[0].Destroy()
		}
	}()

	outTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output type (want float32 tensor)")
	}
	outShape := outTensor.GetShape()
	if len(outShape) != 3 || int(outShape[1]) != seq {
		return nil, fmt.Errorf("unexpected logits shape %v for %d tokens", outShape, seq)
	}
	numLabels := int(outShape[2])
	if numLabels != len(b.labels) {
		return nil, fmt.Errorf("model emits %d labels, config names %d", numLabels, len(b.labels))
	}

	return b.decode(text, tokens, outTensor.GetData(), numLabels), nil
}

// decode walks per-token label predictions and merges contiguous runs of
// the same entity into one span. Scores are the mean softmax probability of
// the run's tokens.
func (b *onnxNER) decode(text string, tokens []wordToken, logits []float32, numLabels int) []pii.EntityMatch {
	var matches []pii.EntityMatch
	runStart, runEnd := -1, -1
	runType := ""
	var runProb float64
	var runLen int

	flush := func() {
		if runStart < 0 {
			return
		}
		matches = append(matches, pii.EntityMatch{
			Type:  runType,
			Start: runStart,
			End:   runEnd,
			Text:  text[runStart:runEnd],
			Score: runProb / float64(runLen),
		})
		runStart = -1
	}

	for i, tok := range tokens {
		tl := logits[i*numLabels : (i+1)*numLabels]
		best := argmax(tl)
		entity, isBegin := entityForLabel(b.labels[best])
		if entity == "" {
			flush()
			continue
		}
		if runStart >= 0 && runType == entity && !isBegin {
			runEnd = tok.end
			runProb += softmaxProb(tl, best)
			runLen++
			continue
		}
		flush()
		runStart, runEnd, runType = tok.start, tok.end, entity
		runProb = softmaxProb(tl, best)
		runLen = 1
	}
	flush()

	return matches
}

// entityForLabel maps a BIO label to the entity type it contributes to.
// Unknown label families are ignored.
func entityForLabel(label string) (string, bool) {
	isBegin := strings.HasPrefix(label, "B-")
	name := strings.TrimPrefix(strings.TrimPrefix(label, "B-"), "I-")
	switch strings.ToUpper(name) {
	case "PER", "PERSON":
		return pii.TypePerson, isBegin
	case "LOC", "LOCATION", "GPE":
		return pii.TypeLocation, isBegin
	default:
		return "", false
	}
}

func (b *onnxNER) lookup(token string) int64 {
	if id, ok := b.vocab[strings.ToLower(token)]; ok {
		return id
	}
	return b.unkID
}

// loadVocab reads one token per line; the line number is the token ID.
func loadVocab(path string) (map[string]int64, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	vocab := make(map[string]int64)
	unkID := int64(0)
	scanner := bufio.NewScanner(f)
	var id int64
	for scanner.Scan() {
		token := strings.TrimSpace(scanner.Text())
		if token == "" {
			id++
			continue
		}
		vocab[token] = id
		if token == "[UNK]" || token == "<unk>" {
			unkID = id
		}
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	if len(vocab) == 0 {
		return nil, 0, fmt.Errorf("vocabulary %s is empty", path)
	}
	return vocab, unkID, nil
}

type wordToken struct {
	start, end int
}

// wordTokens splits text into letter/digit runs with byte offsets.
func wordTokens(text string) []wordToken {
	var tokens []wordToken
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, wordToken{start: start, end: i})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, wordToken{start: start, end: len(text)})
	}
	return tokens
}

func argmax(values []float32) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// softmaxProb converts one logit row to the probability of the idx label.
func softmaxProb(logits []float32, idx int) float64 {
	max := logits[0]
	for _, v := range logits {
		if v > max {
			max = v
		}
	}
	var sum float64
	for _, v := range logits {
		sum += math.Exp(float64(v - max))
	}
	return math.Exp(float64(logits[idx]-max)) / sum
}
