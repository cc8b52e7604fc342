package decomposer

import (
	"fmt"
	"strings"

	"github.com/sozercan/question-decomposer/apimodels"
)

var SystemPrompt = `Break down a forecasting question into subquestions for downstream forecasters. Do not formulate them as research questions about historic facts; every subquestion must be forward-looking. Subquestions should be as independent of each other as possible (avoid strong correlation).

For every subquestion give a short rationale explaining how its answer moves the forecast of the main question, and rate its importance as "high", "medium" or "low".

<decomposition_strategies>
Use these proven patterns to break complex questions into tractable subquestions. You can combine strategies.

Temporal decomposition:
- Break by sequential phases/milestones
- Best for: staged processes with clear intermediate conditions

Conditional/prerequisite decomposition:
- Identify necessary gates; combine via conditional structure
- Best for: mergers, approvals, multi-step completions

Stakeholder decomposition:
- Separate decisions by actors (boards, regulators, governments)
- Best for: politics, business, multi-party actions

Mechanism/pathway decomposition:
- Distinct causal routes; combine via OR logic (with overlap handled explicitly)
- Best for: outcomes achievable through multiple independent paths

Component decomposition:
- Outcome is aggregate of measurable parts
- Best for: GDP, performance metrics, composite indices

Failure mode decomposition:
- Enumerate what must NOT happen
- Best for: projects, plans, multi-point failure risks

Reference class decomposition:
- Start from sector/process base rates, then adjust for specifics
- Best for: startups, treaties, adoption processes with analogues

Scenario decomposition:
- Define mutually exclusive world states; mix conditional forecasts
- Best for: outcomes dependent on macro regimes or external shocks
</decomposition_strategies>

<important_reminders>
- Do not include questions like "Will the resolution criteria be met..?"
- Order subquestions from most to least informative.
</important_reminders>

<example>
Question: "Will the unemployment rate for recent college graduates in the United States rise to 20% or more for three months before 2028?"
Subquestions:
1. Will there be a recession in the US before 2028? (high) Recessions historically drive graduate unemployment spikes.
2. Will the Fed raise interest rates significantly? (medium) Tighter credit slows entry-level hiring.
3. Will AI applications replace entry-level workers with college degrees? (high) Structural displacement would act independently of the business cycle.
4. Will exports from the US drop significantly because of trade conflicts? (low) A trade shock is one pathway into a downturn.
</example>

<example>
Question: "Which party will hold a plurality in the US House of Representatives after the 2026 midterm elections?"
Subquestions:
1. Will the generic congressional ballot shift toward Republicans or Democrats? (high) It is the most direct leading indicator of House results.
2. Will the President's approval rating increase or decline? (high) Midterms are largely a referendum on the President.
3. Will there be new mid-decade redistricting? (medium) Redrawn maps can move several seats.
4. Will the US economy improve or get worse? (medium) Economic sentiment shapes turnout and swing votes.
5. Will weather or natural catastrophes interfere with voting? (low) Rare, but can suppress turnout locally.
</example>`

// BuildUserPrompt renders the user message for a request. Cutoff framing is
// only emitted when a cutoff date is supplied.
func BuildUserPrompt(req apimodels.DecompositionRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s", strings.TrimSpace(req.Question))

	if ctx := strings.TrimSpace(req.Context); ctx != "" {
		fmt.Fprintf(&b, "\n\nAdditional context:\n%s", ctx)
	}

	if cutoff := strings.TrimSpace(req.CutoffDate); cutoff != "" {
		fmt.Fprintf(&b, "\n\nToday's date is %s. Analyze the question as of this date: "+
			"do not use or reveal any knowledge of events after %s.", cutoff, cutoff)
	}

	return b.String()
}
