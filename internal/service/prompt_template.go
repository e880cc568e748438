package service

import (
	"csa_sim_backend/internal/util"
	"fmt"
	"regexp"
	"strings"
)

// 评分模板必须包含的占位符，保存自定义模板时校验，避免评分时才失败
var requiredGradingPlaceholders = []string{"question", "response", "ideal", "feedback"}

// 评分时实际提供的全部字段，模板引用集合之外的占位符同样在保存时拒绝
var allowedGradingPlaceholders = map[string]bool{
	"question":          true,
	"response":          true,
	"ideal":             true,
	"feedback":          true,
	"ideal_system_name": true,
	"ideal_system_url":  true,
	"system_name":       true,
	"system_url":        true,
}

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// DefaultGradingTemplate 内置评分模板，管理员未配置覆盖时使用
const DefaultGradingTemplate = `I will give you a question, a customer service trainee's response to that question, and the ideal response to that question.
Please assess the trainee's response to the question. Do not actually answer the question, but evaluate the answer only using the context given and the ideal answer.
Please give the trainee's response a score out of 5 for accuracy, precision, and tone. Accuracy refers to if the factually correct answers were provided, precision refers to whether the answer has enough details and is concise, and tone refers to whether the tone of the answer is respectful and professional.
Please take note that the ideal response scored 5 for accuracy, precision, and tone and use it as a point of reference.
Please also give some general feedback for improvement.
Please incorporate the following text in your Accuracy Feedback: {feedback}

It is acceptable to give the trainee full marks if they answered similarly to the ideal response, and if you do not have improvements to give, please give a score of 5. Do not mention the existence of the ideal response when providing your feedback.

Use the following rubric as a guide when evaluating the response:

**Accuracy**
- **1**: The response contains significant errors and inaccuracies, possibly leading to misinformation or confusion for the customer.
- **2**: The response has several inaccuracies and lacks attention to detail, which could impact the customer's understanding of the information provided.
- **3**: The response is mostly accurate but may contain minor errors that do not significantly impact the overall understanding.
- **4**: The response is accurate with very few, if any, errors, ensuring that the information provided is reliable and correct.
- **5**: The response is completely accurate and error-free, demonstrating a high level of attention to detail and precision in the information provided.

**Comprehension**
- **1**: The response demonstrates a lack of understanding of the customer's query, possibly leading to irrelevant or unhelpful information being provided.
- **2**: The response shows partial understanding of the customer's query, but may miss key points or fail to address the customer's needs comprehensively.
- **3**: The response demonstrates a good understanding of the customer's query, addressing the main points effectively and providing relevant information.
- **4**: The response shows a clear understanding of the customer's query, ensuring that all aspects of the customer's query are addressed accurately and comprehensively.
- **5**: The response demonstrates an exceptional understanding of the customer's query, even in ambiguous situations, providing insightful and comprehensive information that exceeds the customer's expectations.

**Tone**
- **1**: The tone is inappropriate, unprofessional, or rude, potentially leading to a negative customer experience.
- **2**: The tone is somewhat inappropriate or lacks professionalism, which may impact the customer's perception of the service.
- **3**: The tone is polite and professional, but may have some inconsistencies or lack a personal touch, potentially affecting the overall customer experience.
- **4**: The tone is consistently polite, professional, and engaging, enhancing the customer's experience and demonstrating a high level of customer service.
- **5**: The tone is consistently polite, professional, and empathetic, creating a positive and supportive customer experience that exceeds expectations.

Please give your response in this JSON format, where score is an integer and all feedbacks are a string:
"Accuracy": score, "Precision": score, "Tone": score, "Accuracy Feedback": accuracy_feedback, "Precision Feedback": precision_feedback, "Tone Feedback": tone_feedback, "Feedback": feedback_response
Do not include backticks and do wrap the feedback in quotation marks.

Question: {question}
Trainee's response: {response}
Ideal response: {ideal}
Accuracy Feedback: {feedback}`

// DefaultImprovementTemplate 两次作答对比分析模板
// 明确要求模型不要向学员暴露标准答案的存在
const DefaultImprovementTemplate = `A customer service trainee has answered the same training question twice. Compare the two attempts and give the trainee concise feedback on how their answer has changed and what to focus on next.

Question: {question}

Previous attempt:
Answer: {previous_answer}
Scores - Accuracy: {previous_accuracy}/5, Precision: {previous_precision}/5, Tone: {previous_tone}/5
Systems referenced: {previous_system_name} ({previous_system_url})

Latest attempt:
Answer: {last_answer}
Scores - Accuracy: {last_accuracy}/5, Precision: {last_precision}/5, Tone: {last_tone}/5
Systems referenced: {last_system_name} ({last_system_url})

Reference answer (for your evaluation only): {ideal}
Reference systems: {ideal_system_name} ({ideal_system_url})

Address the trainee directly. Point out what improved, what regressed, and the single most useful next step. Do not mention that a reference or ideal answer exists, and do not reveal its content.`

// RenderTemplate 按名字替换{placeholder}占位符
// 模板引用而fields未提供的占位符视为错误，避免字面占位符进入提示词
func RenderTemplate(tmpl string, fields map[string]string) (string, error) {
	var missing []string
	rendered := placeholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholderPattern.FindStringSubmatch(m)[1]
		value, ok := fields[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", util.ErrMissingPlaceholder, strings.Join(missing, ", "))
	}
	return rendered, nil
}

// ValidateGradingTemplate 模板保存时校验：必需占位符全部出现，且不引用评分时不提供的占位符
func ValidateGradingTemplate(tmpl string) error {
	present := make(map[string]bool)
	var unknown []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		name := m[1]
		present[name] = true
		if !allowedGradingPlaceholders[name] {
			unknown = append(unknown, name)
		}
	}

	var missing []string
	for _, name := range requiredGradingPlaceholders {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", util.ErrMissingPlaceholder, strings.Join(missing, ", "))
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: unknown placeholder %s", util.ErrMissingPlaceholder, strings.Join(unknown, ", "))
	}
	return nil
}
