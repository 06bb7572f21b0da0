package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// Conversation memory limits
const (
	// MaxHistoryTurns is the number of exchanges kept per conversation.
	// The store trims to 2x this value in messages.
	MaxHistoryTurns = 10

	// ContextWindowBudget is the character budget used when assembling the
	// chat window sent to the model.
	ContextWindowBudget = 8000

	// ConversationMaxAge is how long an idle conversation survives before
	// the eviction task drops it.
	ConversationMaxAgeHours = 24
)

// Retrieval defaults
const (
	DefaultTopK = 5

	// DocumentTruncateLen caps each retrieved abstract inside the grounding
	// context; longer documents get an ellipsis.
	DocumentTruncateLen = 1500

	// RerankSnippetLen caps the per-paper snippet shown to the reranking model.
	RerankSnippetLen = 200

	// RewriteHistoryMessages is how many trailing messages the query
	// reformulator sees.
	RewriteHistoryMessages = 4
)

const ChatSystemPromptV1 = `You are a research paper assistant. You answer questions about arXiv papers using the paper excerpts provided in the conversation.

RULES:
1. Ground every claim in the provided excerpts. Cite them as [Paper N].
2. If the excerpts do not cover the question, say so plainly instead of guessing.
3. Be precise with technical terms, method names and results.
4. Answer in the language the user asked in.
5. Keep answers focused; 2-5 paragraphs is usually enough.`

const QueryRewriteWithHistoryPromptV1 = `You rewrite follow-up questions into standalone search queries for a scientific paper index.

Recent conversation:
%s

Latest question: %s

Rewrite the latest question so it can be understood without the conversation. Resolve pronouns and references, keep all technical terms, and add nothing new. Reply with the rewritten query only, at most 50 words.`

const QueryRewriteStandalonePromptV1 = `You optimize questions into search queries for a scientific paper index.

Question: %s

Restate it as a concise keyword-rich search query. Keep all technical terms, add nothing new. Reply with the query only, at most 50 words.`

const RerankPromptV1 = `You rank paper excerpts by relevance to a question.

Question: %s

Papers:
%s

Reply with the paper numbers in descending order of relevance, comma-separated (for example: 2,1,3). Reply with the numbers only.`

const GroundedQuestionPromptV1 = `Here are excerpts from relevant papers:

%s

Question: %s

Answer using the excerpts above, citing them as [Paper N].`

// MsgNoPapersFound is persisted as the assistant turn when retrieval
// comes back empty, so the conversation history stays coherent.
const MsgNoPapersFound = `Sorry, I couldn't find any relevant papers for that question. Try rephrasing it, or fetch more papers on this topic first.`

// MsgLLMUnavailable is returned when no language model backend is configured.
const MsgLLMUnavailable = `The language model service is not configured, so I can't answer questions right now. Set the LLM provider credentials and restart.`

// MsgAnswerFailedPrefix prefixes the persisted assistant turn when
// generation fails mid-pipeline.
const MsgAnswerFailedPrefix = `Sorry, something went wrong while generating the answer: `

// Abstract translation
const (
	// DefaultTranslationLanguage is used when the request names no target.
	DefaultTranslationLanguage = "Chinese"

	TranslationTemperature = 0.3
)

const TranslationSystemPromptV1 = `You are a professional academic translation engine. You translate English paper abstracts into accurate, fluent %s.`

const TranslationPromptV1 = `Translate the following English academic abstract into %s, keeping technical terms precise:

%s`

// MsgTranslationUnavailable is returned when no language model backend is
// configured for the translation endpoint.
const MsgTranslationUnavailable = `The language model service is not configured, so translation is unavailable. Set the LLM provider credentials and restart.`
