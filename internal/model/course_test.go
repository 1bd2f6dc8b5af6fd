package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	cases := []struct {
		name     string
		price    float64
		discount int
		want     float64
	}{
		{"无折扣", 100, 0, 100.00},
		{"七五折", 100, 25, 75.00},
		{"四舍五入", 99.99, 33, 66.99},
		{"全额折扣", 49.90, 100, 0},
		{"免费课程", 0, 50, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			course := Course{Price: tc.price, Discount: tc.discount}
			assert.Equal(t, tc.want, course.EffectivePrice())
		})
	}
}

func TestContentRoundTrip(t *testing.T) {
	course := Course{}
	chapters, err := course.GetContent()
	assert.NoError(t, err)
	assert.Empty(t, chapters)

	err = course.SetContent([]Chapter{
		{ChapterID: "ch-1", ChapterTitle: "入门", ChapterContent: []Lecture{
			{LectureID: "lec-1", LectureTitle: "环境搭建", IsPreviewFree: true},
		}},
	})
	assert.NoError(t, err)

	chapters, err = course.GetContent()
	assert.NoError(t, err)
	assert.Len(t, chapters, 1)
	assert.True(t, chapters[0].ChapterContent[0].IsPreviewFree)
}
