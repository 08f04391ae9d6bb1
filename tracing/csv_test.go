package tracing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func readCSV(content string) ([]Record, error) {
	return NewCSVTraceReader(strings.NewReader(content)).
		ReadAll(context.Background())
}

func lineOf(err error) int {
	var malformedErr *MalformedRecordError
	Expect(errors.As(err, &malformedErr)).To(BeTrue())

	return malformedErr.Line
}

var _ = Describe("CSVTraceReader", func() {
	It("should read records in file order", func() {
		records, err := readCSV("Time,Process\n0,P1\n1,P2\n2,Idle\n3,P1\n")

		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(Equal([]Record{
			{Time: 0, Process: "P1"},
			{Time: 1, Process: "P2"},
			{Time: 2, Process: "Idle"},
			{Time: 3, Process: "P1"},
		}))
	})

	It("should accept columns in any order and ignore extra columns", func() {
		records, err := readCSV("Core,Process,Time\n0,P3,7\n0,P1,8\n")

		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(Equal([]Record{
			{Time: 7, Process: "P3"},
			{Time: 8, Process: "P1"},
		}))
	})

	It("should trim spaces and a byte order mark", func() {
		records, err := readCSV("\ufeffTime, Process\n 4 , P2 \n")

		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(Equal([]Record{{Time: 4, Process: "P2"}}))
	})

	It("should keep process names case sensitive", func() {
		records, err := readCSV("Time,Process\n0,idle\n1,Idle\n")

		Expect(err).NotTo(HaveOccurred())
		Expect(records[0].IsIdle(DefaultIdleProcess)).To(BeFalse())
		Expect(records[1].IsIdle(DefaultIdleProcess)).To(BeTrue())
	})

	It("should accept the latest representable slot", func() {
		records, err := readCSV(fmt.Sprintf("Time,Process\n%d,P1\n", MaxTime))

		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(Equal([]Record{{Time: MaxTime, Process: "P1"}}))
	})

	It("should reject a time whose slot end does not fit in an int", func() {
		_, err := readCSV(fmt.Sprintf("Time,Process\n%d,P1\n%d,Idle\n",
			MaxTime, math.MaxInt))

		Expect(err).To(MatchError(ErrMalformedRecord))
		Expect(lineOf(err)).To(Equal(3))
	})

	It("should report an empty file as an empty trace", func() {
		_, err := readCSV("")

		Expect(err).To(MatchError(ErrEmptyTrace))
	})

	It("should report a header-only file as an empty trace", func() {
		_, err := readCSV("Time,Process\n")

		Expect(err).To(MatchError(ErrEmptyTrace))
	})

	It("should reject a header without a Process column", func() {
		_, err := readCSV("Time,Name\n0,P1\n")

		Expect(err).To(MatchError(ErrMalformedRecord))
		Expect(lineOf(err)).To(Equal(1))
	})

	It("should reject a header that names a column twice", func() {
		_, err := readCSV("Time,Time,Process\n0,0,P1\n")

		Expect(err).To(MatchError(ErrMalformedRecord))
		Expect(err).To(MatchError(ContainSubstring(`duplicate "Time" column`)))
		Expect(lineOf(err)).To(Equal(1))

		_, err = readCSV("Process,Time,\ufeffProcess\n")
		Expect(err).To(MatchError(ContainSubstring(`duplicate "Process" column`)))
	})

	It("should reject a non-integer time", func() {
		_, err := readCSV("Time,Process\n0,P1\n1.5,P2\n")

		Expect(err).To(MatchError(ErrMalformedRecord))
		Expect(lineOf(err)).To(Equal(3))
	})

	It("should reject a negative time", func() {
		_, err := readCSV("Time,Process\n-1,P1\n")

		Expect(err).To(MatchError(ErrMalformedRecord))
		Expect(err.Error()).To(ContainSubstring("negative"))
	})

	It("should reject a missing field", func() {
		_, err := readCSV("Time,Process\n0,P1\n1\n")

		Expect(err).To(MatchError(ErrMalformedRecord))
		Expect(lineOf(err)).To(Equal(3))
	})

	It("should reject an empty process", func() {
		_, err := readCSV("Time,Process\n0,\n")

		Expect(err).To(MatchError(ErrMalformedRecord))
	})

	It("should turn csv syntax errors into malformed records", func() {
		_, err := readCSV("Time,Process\n0,\"P1\n")

		Expect(err).To(MatchError(ErrMalformedRecord))
	})

	It("should stop when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewCSVTraceReader(strings.NewReader("Time,Process\n0,P1\n")).
			ReadAll(ctx)

		Expect(err).To(MatchError(context.Canceled))
	})
})
