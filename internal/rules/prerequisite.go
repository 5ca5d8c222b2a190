package rules

import "strings"

// CheckPrerequisiteEdge 校验新增先修边 subject → required
// edges[x] 为 x 已有的先修科目；若 required 沿已有边能到达 subject，新增后即成环
func CheckPrerequisiteEdge(edges map[string][]string, subject, required string) error {
	if subject == required {
		return ErrSelfPrerequisite
	}

	seen := map[string]bool{required: true}
	queue := []string{required}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range edges[cur] {
			if next == subject {
				return ErrPrerequisiteCycle
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return nil
}

var romanValues = []struct {
	value  int
	symbol string
}{
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func toRoman(n int) string {
	var b strings.Builder
	for _, rv := range romanValues {
		for n >= rv.value {
			b.WriteString(rv.symbol)
			n -= rv.value
		}
	}
	return b.String()
}

// fromRoman 只识别 I..XX 的规范写法
func fromRoman(s string) (int, bool) {
	for n := 1; n <= 20; n++ {
		if toRoman(n) == s {
			return n, true
		}
	}
	return 0, false
}

// RomanPredecessor "Matemática II" → "Matemática I"
// 名称不以罗马数字结尾或数字为 I 时返回 false
func RomanPredecessor(name string) (string, bool) {
	name = strings.TrimSpace(name)
	idx := strings.LastIndex(name, " ")
	if idx <= 0 {
		return "", false
	}
	base, suffix := name[:idx], name[idx+1:]
	n, ok := fromRoman(strings.ToUpper(suffix))
	if !ok || n < 2 {
		return "", false
	}
	return strings.TrimSpace(base) + " " + toRoman(n-1), true
}
