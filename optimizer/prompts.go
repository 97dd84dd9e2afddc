package optimizer

import (
	"fmt"
	"strings"

	"github.com/use-agent/listify/models"
)

// Each generation sub-task gets its own instruction embedding the original
// field values plus sibling context, so the model sees the whole product
// even when rewriting one field.

func titlePrompt(l *models.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert Amazon listing optimizer. Your task is to optimize the following product title to improve its SEO performance and conversion rate.

Original Title: %q

Additional Product Information:
`, l.Title)
	if len(l.Bullets) > 0 {
		fmt.Fprintf(&b, "- Bullet Points: %s\n", strings.Join(l.Bullets, "\n- "))
	}
	if l.Description != "" {
		fmt.Fprintf(&b, "- Description: %s\n", l.Description)
	}
	b.WriteString(`
Guidelines:
1. Keep the title under 200 characters
2. Include important keywords near the beginning
3. Make it readable and appealing to customers
4. Include key product features and benefits
5. Avoid keyword stuffing or unnatural phrasing
6. Follow Amazon's title format guidelines

Return only the optimized title text without any additional explanation.`)
	return b.String()
}

func bulletsPrompt(l *models.Listing) string {
	var b strings.Builder
	b.WriteString(`You are an expert Amazon listing optimizer. Your task is to optimize the following product bullet points to improve conversion rate and SEO performance.

Original Bullet Points:
`)
	for i, bullet := range l.Bullets {
		fmt.Fprintf(&b, "%d. %s\n", i+1, bullet)
	}
	fmt.Fprintf(&b, "\nAdditional Product Information:\n- Title: %s\n", l.Title)
	if l.Description != "" {
		fmt.Fprintf(&b, "- Description: %s\n", l.Description)
	}
	b.WriteString(`
Guidelines:
1. Start each bullet with a benefit, followed by the feature
2. Keep each bullet under 200 characters
3. Focus on unique selling points and key features
4. Use strong, persuasive language
5. Include relevant keywords naturally
6. Maintain the same number of bullet points as the original

Return the optimized bullet points in a JSON array format like this:
["Bullet point 1", "Bullet point 2", ...]`)
	return b.String()
}

func descriptionPrompt(l *models.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert Amazon listing optimizer. Your task is to optimize the following product description to improve SEO performance and conversion rate.

Original Description:
%q

Additional Product Information:
- Title: %s
`, l.Description, l.Title)
	if len(l.Bullets) > 0 {
		fmt.Fprintf(&b, "- Bullet Points: %s\n", strings.Join(l.Bullets, "\n- "))
	}
	b.WriteString(`
Guidelines:
1. Keep paragraphs short and scannable (2-3 sentences each)
2. Include relevant keywords naturally
3. Focus on benefits, not just features
4. Use persuasive but compliant language (avoid unsubstantiated claims)
5. Keep the overall length similar to the original
6. Format with proper paragraph breaks

Return only the optimized description without any additional explanation.`)
	return b.String()
}

func keywordsPrompt(l *models.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert Amazon SEO specialist. Your task is to suggest 3-5 high-value keywords for the following product to improve its discoverability.

Product Information:
- Title: %s
`, l.Title)
	if len(l.Bullets) > 0 {
		fmt.Fprintf(&b, "- Bullet Points: %s\n", strings.Join(l.Bullets, "\n- "))
	}
	if l.Description != "" {
		fmt.Fprintf(&b, "- Description: %s\n", l.Description)
	}
	b.WriteString(`
Guidelines:
1. Focus on long-tail keywords with good search volume but lower competition
2. Include a mix of primary and secondary keywords
3. Consider keywords that highlight unique selling points
4. Avoid overly generic terms
5. Include at least one keyword phrase (2-3 words)

Return the keywords in a JSON array format like this:
["keyword 1", "keyword 2", ...]`)
	return b.String()
}
