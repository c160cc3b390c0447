package test

import (
	"testing"

	"github.com/onsi/gomega"
)

type Assertions struct {
	internal *gomega.WithT
}

func NewAssertions(t *testing.T) Assertions {
	return Assertions{internal: gomega.NewWithT(t)}
}

func (a Assertions) Nil(value any, msg ...any) {
	a.internal.Expect(value).To(gomega.BeNil(), msg...)
}

func (a Assertions) NotNil(values ...any) {
	for _, value := range values {
		a.internal.Expect(value).To(gomega.Not(gomega.BeNil()))
	}
}

func (a Assertions) Error(err error, msg ...any) {
	a.internal.Expect(err).To(gomega.HaveOccurred(), msg...)
}

func (a Assertions) NotEmpty(value string) {
	a.internal.Expect(value).To(gomega.Not(gomega.BeEmpty()))
}

func (a Assertions) True(value bool, msg ...any) {
	a.internal.Expect(value).To(gomega.BeTrue(), msg...)
}

func (a Assertions) False(value bool, msg ...any) {
	a.internal.Expect(value).To(gomega.BeFalse(), msg...)
}

func (a Assertions) Equals(value any, expected any, msg ...any) {
	a.internal.Expect(value).To(gomega.Equal(expected), msg...)
}

func (a Assertions) NotEqual(value any, other any) {
	a.internal.Expect(value).NotTo(gomega.Equal(other))
}

func (a Assertions) Len(value any, length int) {
	a.internal.Expect(value).To(gomega.HaveLen(length))
}

func (a Assertions) Empty(value any) {
	a.internal.Expect(value).To(gomega.BeEmpty())
}

func (a Assertions) Contains(value string, substr string) {
	a.internal.Expect(value).To(gomega.ContainSubstring(substr))
}

func (a Assertions) NotContains(value string, substr string) {
	a.internal.Expect(value).NotTo(gomega.ContainSubstring(substr))
}

func (a Assertions) MatchXml(value string, expected string) {
	a.internal.Expect(value).To(gomega.MatchXML(expected))
}
