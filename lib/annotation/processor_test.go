package annotation_test

import (
	"context"
	"errors"

	"github.com/lk-health/corpus-annotator/lib/annotation"
	"github.com/lk-health/corpus-annotator/lib/domain"
	"github.com/lk-health/corpus-annotator/lib/entity"
	"github.com/lk-health/corpus-annotator/lib/intent"
	"github.com/lk-health/corpus-annotator/lib/language"
	"github.com/lk-health/corpus-annotator/lib/preprocess"
	"github.com/lk-health/corpus-annotator/lib/romanized"
	"github.com/lk-health/corpus-annotator/lib/store/local"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type explodingTagger struct{}

func (explodingTagger) Tag(string) domain.Result {
	panic("tagger exploded")
}

type failingRepository struct {
	*local.Store
}

func (failingRepository) InsertQAPair(context.Context, annotation.QAPairRecord) error {
	return errors.New("disk full")
}

var _ = Describe("Processor", func() {
	var processor *annotation.Processor

	BeforeEach(func() {
		processor = annotation.New(annotation.DefaultOptions())
	})

	Describe("language scenarios", func() {
		It("detects Sinhala script", func() {
			res := processor.Process(annotation.Document{ContextID: "a", Text: "ඩෙංගු වෛද්‍ය මධ්‍යස්ථානය"})

			Expect(res.Errors).Should(BeEmpty())
			Expect(res.Language.Language).Should(Equal(language.Sinhala))
			Expect(res.Language.ScriptType).Should(Equal(language.SinhalaScript))
			Expect(res.Language.Confidence).Should(BeNumerically(">", 0.7))
			Expect(res.Romanized).Should(BeNil())
			Expect(res.Domain.Primary).Should(Equal(domain.Dengue))
		})

		It("classifies Singlish", func() {
			res := processor.Process(annotation.Document{ContextID: "b", Text: "mage amma dengue clinic eka koheda"})

			Expect(res.Romanized).ShouldNot(BeNil())
			Expect(res.Romanized.Classification).Should(Equal(romanized.Singlish))
			Expect(res.Intent.Intent).Should(Equal(intent.AskingLocation))
		})

		It("classifies Tamilish", func() {
			res := processor.Process(annotation.Document{ContextID: "c", Text: "dengue clinic enga irukku"})

			Expect(res.Romanized).ShouldNot(BeNil())
			Expect(res.Romanized.Classification).Should(Equal(romanized.Tamilish))
		})
	})

	Describe("entities and questions", func() {
		BeforeEach(func() {
			processor = annotation.New(annotation.DefaultOptions(),
				annotation.WithPreprocessor(preprocess.New(preprocess.Options{})))
		})

		It("extracts hospital, phone and disease", func() {
			res := processor.Process(annotation.Document{ContextID: "d", Text: "Call the National Hospital at 0771234567 about dengue"})

			Expect(res.Errors).Should(BeEmpty())
			Expect(res.Entities.Entities).Should(HaveLen(3))
			hospital, phone, disease := res.Entities.Entities[0], res.Entities.Entities[1], res.Entities.Entities[2]
			Expect(hospital.Type).Should(Equal(entity.Hospital))
			Expect(hospital.Normalized).Should(Equal("National Hospital of Sri Lanka"))
			Expect(phone.Type).Should(Equal(entity.Phone))
			Expect(phone.Text).Should(Equal("0771234567"))
			Expect(disease.Type).Should(Equal(entity.Disease))
			Expect(disease.Text).Should(Equal("dengue"))
			for i := range res.Entities.Entities {
				for j := i + 1; j < len(res.Entities.Entities); j++ {
					Expect(res.Entities.Entities[i].Overlaps(res.Entities.Entities[j])).Should(BeFalse())
				}
			}
		})

		It("generates questions and backfills their domain", func() {
			res := processor.Process(annotation.Document{ContextID: "d", Text: "Call the National Hospital at 0771234567 about dengue"})

			Expect(res.QAPairs).Should(HaveLen(3))
			location, hours, symptoms := res.QAPairs[0], res.QAPairs[1], res.QAPairs[2]

			Expect(location.Question).Should(Equal("Where is the National Hospital of Sri Lanka?"))
			Expect(location.Intent).Should(Equal(intent.AskingLocation))
			Expect(location.Domain).Should(Equal(res.Domain.Primary))
			Expect(hours.Intent).Should(Equal(intent.AskingTime))
			Expect(symptoms.Question).Should(Equal("What are the symptoms of Dengue Fever?"))
			Expect(symptoms.Domain).Should(Equal(domain.Domain("dengue")))
			for _, p := range res.QAPairs {
				Expect(p.SourceContextID).Should(Equal("d"))
				Expect(p.ID).ShouldNot(BeEmpty())
			}
		})

		It("skips questions when disabled", func() {
			processor = annotation.New(annotation.Options{GenerateQA: false})
			res := processor.Process(annotation.Document{ContextID: "d", Text: "Call the National Hospital about dengue"})

			Expect(res.Entities.Entities).ShouldNot(BeEmpty())
			Expect(res.QAPairs).Should(BeEmpty())
		})
	})

	It("tags the domain and intent of a question", func() {
		res := processor.Process(annotation.Document{ContextID: "e", Text: "What are the symptoms of dengue fever?"})

		Expect(res.Domain.Primary).Should(Equal(domain.Dengue))
		Expect(res.Intent.Intent).Should(Equal(intent.AskingSymptoms))
	})

	It("masks personal data", func() {
		res := processor.Process(annotation.Document{ContextID: "f", Text: "Call 0771234567 or email a@b.com"})

		Expect(res.Preprocessing.PIIRemoved).Should(BeTrue())
		Expect(res.Preprocessing.CleanedText).Should(Equal("call [REDACTED] or email [REDACTED]"))
		Expect(res.Preprocessing.OriginalText).Should(Equal("Call 0771234567 or email a@b.com"))
	})

	It("reads FAQ markup from html documents", func() {
		res := processor.Process(annotation.Document{
			ContextID: "g",
			HTML:      "<h3>Q: What is dengue fever?</h3><p>A: Dengue is a viral infection spread by mosquitoes.</p>",
			SourceURL: "https://health.gov.lk/faq",
		})

		Expect(res.Errors).Should(BeEmpty())
		Expect(res.Preprocessing.OriginalText).Should(Equal("Q: What is dengue fever?\nA: Dengue is a viral infection spread by mosquitoes."))
		Expect(res.QAPairs).ShouldNot(BeEmpty())
		Expect(res.QAPairs[0].Question).Should(Equal("What is dengue fever?"))
		Expect(res.QAPairs[0].Answer).Should(Equal("Dengue is a viral infection spread by mosquitoes."))
		Expect(res.QAPairs[0].SourceURL).Should(Equal("https://health.gov.lk/faq"))
		for _, p := range res.QAPairs {
			Expect(p.Intent).ShouldNot(BeEmpty())
			Expect(p.Domain).ShouldNot(BeEmpty())
		}
	})

	It("returns unknown results for empty input", func() {
		res := processor.Process(annotation.Document{ContextID: "empty"})

		Expect(res.Errors).Should(BeEmpty())
		Expect(res.Language.Language).Should(Equal(language.Unknown))
		Expect(res.Intent.Intent).Should(Equal(intent.Unknown))
		Expect(res.Domain.Primary).Should(Equal(domain.General))
		Expect(res.Domain.Confidence).Should(BeZero())
	})

	It("keeps partial results when a stage fails", func() {
		processor = annotation.New(annotation.DefaultOptions(), annotation.WithDomainTagger(explodingTagger{}))
		res := processor.Process(annotation.Document{ContextID: "boom", Text: "Where is the dengue clinic?"})

		Expect(res.Errors).Should(Equal([]string{"tagger exploded"}))
		Expect(res.Language).ShouldNot(BeNil())
		Expect(res.Preprocessing).ShouldNot(BeNil())
		Expect(res.Entities).ShouldNot(BeNil())
		Expect(res.Intent).ShouldNot(BeNil())
		Expect(res.Domain).Should(BeNil())
		Expect(res.QAPairs).Should(BeEmpty())
		Expect(res.ProcessingTime).Should(BeNumerically(">", 0))
	})

	Describe("ProcessBatch", func() {
		docs := []annotation.Document{
			{ContextID: "1", Text: "What are the symptoms of dengue fever?"},
			{ContextID: "2", Text: "mage amma dengue clinic eka koheda"},
			{ContextID: "3", Text: "ඩෙංගු වෛද්‍ය මධ්‍යස්ථානය"},
		}

		It("keeps the order of the documents", func() {
			processor = annotation.New(annotation.Options{GenerateQA: true, Workers: 2})
			results, err := processor.ProcessBatch(context.Background(), docs)

			Expect(err).ShouldNot(HaveOccurred())
			Expect(results).Should(HaveLen(3))
			for i, res := range results {
				Expect(res.ContextID).Should(Equal(docs[i].ContextID))
			}
			Expect(results[2].Language.Language).Should(Equal(language.Sinhala))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := processor.ProcessBatch(ctx, docs)

			Expect(err).Should(MatchError(context.Canceled))
		})
	})

	Describe("Save", func() {
		It("writes every annotation to the repository", func() {
			processor = annotation.New(annotation.DefaultOptions(),
				annotation.WithPreprocessor(preprocess.New(preprocess.Options{})))
			res := processor.Process(annotation.Document{ContextID: "d", Text: "Call the National Hospital at 0771234567 about dengue"})
			store := local.New()

			Expect(annotation.Save(context.Background(), res, store)).Should(Succeed())

			lang, ok := store.Language("d")
			Expect(ok).Should(BeTrue())
			Expect(lang.DetectedLanguage).Should(Equal("english"))
			Expect(lang.IsRomanized).Should(BeFalse())
			Expect(store.Entities("d")).Should(HaveLen(3))
			id, ok := store.IntentDomain("d")
			Expect(ok).Should(BeTrue())
			Expect(id.Intent).Should(Equal(string(res.Intent.Intent)))
			Expect(id.Domain).Should(Equal("dengue"))
			Expect(store.QAPairs("d")).Should(HaveLen(3))
		})

		It("writes empty intent and domain for failed documents", func() {
			store := local.New()
			res := annotation.Result{ContextID: "x", Errors: []string{"boom"}}

			Expect(annotation.Save(context.Background(), res, store)).Should(Succeed())
			_, ok := store.Language("x")
			Expect(ok).Should(BeFalse())
			id, ok := store.IntentDomain("x")
			Expect(ok).Should(BeTrue())
			Expect(id).Should(Equal(local.IntentDomain{}))
		})

		It("wraps repository errors", func() {
			res := processor.Process(annotation.Document{ContextID: "d", Text: "Call the National Hospital about dengue. The National Hospital is in Colombo."})
			Expect(res.QAPairs).ShouldNot(BeEmpty())

			err := annotation.Save(context.Background(), res, failingRepository{local.New()})
			Expect(err).Should(MatchError(ContainSubstring("disk full")))
			Expect(err.Error()).Should(ContainSubstring("of d"))
		})
	})
})
