package models_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/ankistats/pkg/models"
)

var _ = Describe("Card Models", func() {
	Context("StateFromQueue", func() {
		DescribeTable("mapping queue codes to learning states",
			func(code int, expected models.LearningState) {
				state, err := models.StateFromQueue(code)
				Expect(err).NotTo(HaveOccurred())
				Expect(state).To(Equal(expected))
			},
			Entry("new card", models.QueueNew, models.StateNew),
			Entry("learning card", models.QueueLearning, models.StateLearning),
			Entry("review card", models.QueueReview, models.StateReview),
			Entry("relearning card", models.QueueRelearning, models.StateLearning),
		)

		DescribeTable("rejecting codes outside the mapping",
			func(code int) {
				_, err := models.StateFromQueue(code)
				Expect(err).To(MatchError(models.ErrUnknownQueueCode))
				Expect(err.Error()).To(ContainSubstring("unknown queue code"))
			},
			Entry("suspended card", -1),
			Entry("sched buried card", -2),
			Entry("user buried card", -3),
			Entry("unassigned code", 4),
			Entry("arbitrary code", 42),
		)
	})

	Context("LearningState", func() {
		It("should expose the CSS class fragment for each state", func() {
			Expect(models.StateNew.CSSClass()).To(Equal("new"))
			Expect(models.StateLearning.CSSClass()).To(Equal("learning"))
			Expect(models.StateReview.CSSClass()).To(Equal("review"))
		})

		It("should print as its class fragment", func() {
			Expect(models.StateReview.String()).To(Equal("review"))
		})
	})

	Context("NewCard", func() {
		It("should build a card from a well-formed note", func() {
			card, err := models.NewCard([]string{"猫", "ねこ", "cat"}, models.StateReview, 12, 2)

			Expect(err).NotTo(HaveOccurred())
			Expect(card.Term()).To(Equal("猫"))
			Expect(card.Reading()).To(Equal("ねこ"))
			Expect(card.Meaning()).To(Equal("cat"))
			Expect(card.State).To(Equal(models.StateReview))
			Expect(card.Reps).To(Equal(12))
			Expect(card.Lapses).To(Equal(2))
		})

		It("should keep extra fields beyond the fixed roles", func() {
			fields := []string{"水", "みず", "water", "audio.mp3", "tags"}
			card, err := models.NewCard(fields, models.StateNew, 0, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(card.Fields).To(HaveLen(5))
			Expect(card.Meaning()).To(Equal("water"))
		})

		It("should preserve field contents verbatim", func() {
			card, err := models.NewCard([]string{" 猫 ", "<b>ねこ</b>", "cat; feline"}, models.StateNew, 0, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(card.Term()).To(Equal(" 猫 "))
			Expect(card.Reading()).To(Equal("<b>ねこ</b>"))
			Expect(card.Meaning()).To(Equal("cat; feline"))
		})

		DescribeTable("rejecting notes with too few fields",
			func(fields []string) {
				_, err := models.NewCard(fields, models.StateNew, 0, 0)
				Expect(err).To(MatchError(models.ErrNotEnoughFields))
			},
			Entry("no fields", []string{}),
			Entry("term only", []string{"猫"}),
			Entry("term and reading only", []string{"猫", "ねこ"}),
		)
	})
})
