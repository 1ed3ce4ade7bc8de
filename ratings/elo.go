// Package ratings содержит чистый расчёт рейтинговых дельт по логистической
// (ELO-подобной) модели. Никаких побочных эффектов: за однократность
// применения отвечает вызывающий слой.
package ratings

import "math"

const (
	// KFactor управляет величиной изменения рейтинга за одну игру.
	KFactor = 0.2

	RatingFloor   = 1.0
	RatingCeiling = 7.0
)

// ExpectedScore — вероятность победы стороны с рейтингом ownAvg против
// стороны с рейтингом oppAvg. При равных рейтингах даёт ровно 0.5.
func ExpectedScore(ownAvg, oppAvg float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, oppAvg-ownAvg))
}

// ComputeRatingDeltas возвращает дельты рейтинга для команд 1 и 2.
// winningTeam должен быть 1 или 2 — ничьи отклоняются до вызова.
func ComputeRatingDeltas(team1Avg, team2Avg float64, winningTeam int) (float64, float64) {
	expected1 := ExpectedScore(team1Avg, team2Avg)
	expected2 := 1.0 - expected1

	var actual1, actual2 float64
	if winningTeam == 1 {
		actual1 = 1.0
	} else {
		actual2 = 1.0
	}

	delta1 := KFactor * (actual1 - expected1)
	delta2 := KFactor * (actual2 - expected2)
	return delta1, delta2
}

// Clamp прижимает рейтинг к допустимому диапазону [RatingFloor, RatingCeiling].
func Clamp(rating float64) float64 {
	if rating < RatingFloor {
		return RatingFloor
	}
	if rating > RatingCeiling {
		return RatingCeiling
	}
	return rating
}

// TeamAverage — среднее рейтингов участников стороны.
func TeamAverage(playerRatings []float64) float64 {
	if len(playerRatings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range playerRatings {
		sum += r
	}
	return sum / float64(len(playerRatings))
}
